// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the DocChat
// backend.
//
// The client centralizes base URL handling, default headers, bearer token
// injection, and response normalization. Every JSON response from the
// backend is a tagged envelope {status, message, data}; this package
// decodes the envelope defensively and converts malformed shapes into
// typed client errors rather than propagating undefined fields.
//
// Token namespaces: routes under /api/v1/admin carry the admin token, all
// other routes carry the user token. Both are read from the injected
// key/value store on every outbound call.
package api
