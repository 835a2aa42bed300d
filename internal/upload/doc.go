// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload manages document submission: file-type validation,
// the upload job state machine, and projection of the streamed
// processing feed.
package upload
