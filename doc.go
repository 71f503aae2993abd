// Package polisearch answers natural-language questions over insurance
// document collections. It retrieves evidence from a chunk index using five
// complementary strategies, scores generated answers by embedding
// similarity, and retries with untried strategies until an answer clears
// the confidence gate or the attempt budget runs out.
//
// # Basic Usage
//
// Build a client from configuration and run queries:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := polisearch.New(cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Run(ctx, polisearch.Request{
//		Query: "What is the claim deadline for travel insurance?",
//	})
//
// The response carries the answer, its confidence, the strategy that
// produced it, and the citation of the top supporting chunk. A "partial"
// status means no strategy produced a confident answer and the response
// holds the best evidence gathered.
//
// # Retrieval Strategies
//
// Five strategies run against the same index with different request
// shapes: curated QA pairs, hybrid keyword+vector search, function-summary
// search, single-document search, and entity-filtered search. The selector
// picks the first strategy from the analyzed intent; replanning walks the
// remaining strategies in a fixed order.
//
// # Offline Mode
//
// With search.offline set (or OFFLINE_MODE=true), retrieval runs against an
// in-process vector index loaded from a JSON snapshot, and embeddings come
// from a local model. No network access is required.
package polisearch
