// Package testutil provides testing utilities for facetgo.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Datasets
//
//	rng := testutil.NewRNG(seed)
//	docs := rng.Documents(1000, testutil.MediaSpace(), 0.2)
//	shuffled := testutil.Shuffled(rng, docs)
package testutil
