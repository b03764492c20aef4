// Package mock supplies in-memory doubles for the ai interfaces so tests
// run without a model server.
//
// Exported function fields override behavior per test; nil fields fall
// back to deterministic defaults. CallCount and Reset support assertions
// between cases.
//
//	provider := mock.NewMockProvider()
//	vector, err := provider.Embedder().EmbedText(ctx, "test")
//
//	segmenter := mock.NewMockTopicSegmenter()
//	segmenter.SegmentTranscriptFunc = func(ctx context.Context, utterances []core.Utterance, hints []string) ([]ai.TopicSpan, error) {
//	    return []ai.TopicSpan{{Topic: "budget", Start: 0, End: 1}}, nil
//	}
//
// Defaults: MockEmbedder derives a unit vector from the text hash, so equal
// texts embed identically across runs. MockTopicSegmenter returns a single
// span covering the whole transcript, labeled with the first topic hint
// when one is given.
package mock
