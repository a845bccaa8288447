// SPDX-License-Identifier: MIT

// Package relevance turns a sparse, asymmetric relevance graph over KB
// constants into dense per-hop relevance matrices and per-constant rankings.
//
// Propagation:
//
//	Hops[0] = Direct
//	Walk[0] = Direct / 2
//	Walk[h] = Walk[h-1] · Walk[0]
//	Hops[h] = Walk[0] + … + Walk[h-1] + 2·Walk[h]   (h ≥ 1)
//
// Every hop matrix is C×C and stays in memory for the whole run, so the
// footprint is roughly (H+3)·C²·8 bytes. Multiplication is O(C³) per hop
// and may be split across row blocks with WithWorkers.
//
// A Ranking holds, per constant, the full descending and ascending orders of
// all constants (ties broken by constant ascending) and the length of the
// relevant prefix: the descending order cut at the first zero score.
//
// File formats (little-endian):
//
//	relevance graph: int32 C; per constant int32 n, then n × (int32 target, float32 weight)
//	ranked lists:    int32 C; per constant int32 n, then n × int32 constant (most relevant first)
package relevance
