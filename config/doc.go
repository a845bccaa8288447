// SPDX-License-Identifier: MIT

// Package config loads and validates a negkb run configuration.
//
// Sources, lowest precedence first: built-in defaults, a YAML file,
// NEGKB_* environment variables (".env" files are loaded into the
// environment first; dots in keys become underscores, e.g.
// NEGKB_SAMPLING_POLICY), and command-line flags.
//
// Example file:
//
//	kb:
//	  dir: pos/Cs
//	relevance:
//	  file: negConstRelevance/Cs.dat
//	  max_hops: 3
//	  hop: 3
//	sampling:
//	  policy: full-ranking
//	  rounds: 5
//	output:
//	  dir: negConstRelevance
package config
