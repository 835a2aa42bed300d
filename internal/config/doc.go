// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists the docchat configuration file.
//
// Values resolve in order of precedence:
//   - Environment variables (DOCCHAT_API_URL, DOCCHAT_WS_URL)
//   - ~/.docchat/config.toml
//   - Built-in defaults
package config
