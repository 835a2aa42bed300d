// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin wraps the /api/v1/admin routes: user and document
// management for operators. All calls carry the admin bearer token.
package admin
