// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the SkillBridge client configuration.
//
// Configuration comes from one YAML file named by the --config flag or
// the SKILLBRIDGE_CONFIG environment variable. Without either, the
// built-in defaults apply: the API at http://localhost:4000 and a JSON
// session file under the user's config directory.
//
// The file may carry development, staging and production sections that
// override the base values for the selected environment. Paths accept
// ${VAR} and ${VAR:-default} expansion. After the file is applied,
// SKILLBRIDGE_API_BASE_URL, when set, replaces api.base_url. That is the
// only environment override; the base URL is resolved once at start-up.
package config
