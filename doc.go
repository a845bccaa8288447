// SPDX-License-Identifier: MIT

// Package negkb generates negative knowledge bases: for every positive fact
// of a KB it proposes corrupted facts that are plausible but absent, guided
// by how relevant constants are to each other.
//
// 🚀 What does negkb do?
//
//	Given a positive KB (relations of integer records over constants 1..C)
//	and a sparse relevance graph over the same constants, negkb:
//		• propagates relevance over H hops into dense C×C matrices
//		• ranks every constant's neighbours per hop
//		• substitutes ranked constants into positive records, slot by slot
//		• keeps only novel negatives and optionally weights them
//		• writes the negative KB plus a YAML manifest of the run
//
// Under the hood, everything is organized in small packages:
//
//	kb/         records, relations, positive/negative KB storage on afero
//	matrix/     dense float64 matrices with parallel multiplication
//	relevance/  relevance graphs, hop propagation, rankings and dumps
//	negsample/  record sets, sampling policies (top-k, top-percent,
//	            full-ranking), the per-KB sampler and negative weights
//	config/     viper/pflag/env configuration, validation, zap loggers
//	pipeline/   one end-to-end run and its manifest
//	cmd/negkb   the cobra command line
//
// Quick ASCII example (C = 3, positive r(1,2)):
//
//	ranking of 1: [3 2]      r(1,2) → r(1,3)   slot 0 replaces position 1
//	ranking of 2: [1 3]      r(1,2) → r(3,2)   slot 1 replaces position 0
//
//	go install github.com/katalvlaran/negkb/cmd/negkb@latest
package negkb
