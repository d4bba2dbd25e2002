// Package practicelink runs the practice-link enrichment engine in-process.
//
// Given an interview write-up, the engine finds the coding problems it
// mentions and returns up to a handful of verified LeetCode or
// GeeksforGeeks links. Resolution cascades through a curated catalog, a
// web search provider and a generative model. Tiers without credentials
// are skipped.
//
//	client, _ := practicelink.New(
//	    practicelink.WithSearch(os.Getenv("TAVILY_API_KEY")),
//	    practicelink.WithLLM(os.Getenv("GEMINI_API_KEY"), "", ""),
//	)
//	res, _ := client.Enrich(ctx, practicelink.EnrichInput{Raw: writeUp})
//	fmt.Println(res.PracticeMarkdown)
//
// Match runs only the curated catalog and never touches the network:
//
//	matches, _ := client.Match(ctx, "they asked a variation of coin change", 3)
package practicelink
