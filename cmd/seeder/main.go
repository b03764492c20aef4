package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/recallit"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/ingestion"
)

// demoTranscript is a synthetic quarterly planning meeting. Topic hints below
// line up with its three discussion phases.
const demoTranscript = `00:00:05 Maya: Alright, let's start with the budget review for Q3.
00:00:18 Raj: Cloud spend came in at 42k last month, about 8 percent over the budget line.
00:00:41 Maya: Most of that is the new vector index cluster, right?
00:00:55 Raj: Correct. I can bring it down by moving the staging index to a smaller tier.
00:01:12 Priya: Marketing is under budget by 6k, we delayed the June campaign.
00:01:30 Maya: Good. Shift 4k of that to cover the infra overage and keep 2k in reserve.
00:01:48 Raj: Works for me. I'll update the budget sheet after the call.
00:02:05 Maya: Any other budget items before we move on?
00:02:14 Priya: Nothing from my side.
00:04:40 Maya: Next up, the launch plan for the workspace search feature.
00:04:58 Priya: Beta invites went out to 40 customers, 26 have activated so far.
00:05:20 Tomas: The ingestion backlog from the beta is small, median sync latency is under two seconds.
00:05:44 Maya: What's blocking a general launch?
00:06:02 Tomas: Two things. Namespace deletes need an audit trail, and the docs are thin.
00:06:25 Priya: I can have launch docs drafted by Friday.
00:06:40 Maya: Then let's target the launch for the 24th, with a go or no-go check on Monday.
00:07:01 Tomas: I'll have the audit trail merged before then.
00:09:30 Maya: Last topic, hiring. We still have the backend role open.
00:09:47 Raj: Four candidates in the loop. Two are strong on distributed systems.
00:10:10 Maya: Any hiring risk for the launch timeline?
00:10:26 Raj: No, the launch work is staffed. The new hire lands after, for the audit backlog.
00:10:50 Maya: Fine. Extend an offer to the lead candidate this week if the panel agrees.
00:11:08 Raj: Will do. I'll also close the stale hiring reqs from last quarter.
00:11:30 Maya: Great. That's everything, thanks all.
`

// demoSummary is the summary a note taker would file for demoTranscript.
const demoSummary = `# Budget
Q3 cloud spend ran 8 percent over, driven by the vector index cluster. 4k
reallocated from the delayed marketing campaign; staging index moves to a
smaller tier.

# Launch
Workspace search beta has 26 of 40 customers active. General launch targeted
for the 24th pending an audit trail for namespace deletes and launch docs.

# Hiring
Backend role has four candidates in the loop. Offer goes to the lead candidate
this week; new hire picks up the audit backlog after launch.
`

var (
	seedFileName = flag.String("src", "", "transcript file to seed instead of the demo meeting")
	workspace    = flag.String("workspace", "demo", "workspace namespace to seed into")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	kb, err := recallit.NewKnowledgeBase()
	if err != nil {
		panic(err)
	}
	defer kb.Close()

	pipeline, err := kb.NewIngestionPipeline(
		ingestion.WithTopicHints("budget", "launch", "hiring"),
	)
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()
	if err := kb.EnsureIndex(ctx); err != nil {
		panic(err)
	}

	content := demoTranscript
	if *seedFileName != "" {
		raw, err := os.ReadFile(*seedFileName)
		if err != nil {
			panic(err)
		}
		content = string(raw)
	}

	// Fixed ids keep the seeder idempotent: re-running replaces the previous
	// vectors instead of piling up duplicates.
	now := time.Now().UTC()
	pipeline.Sync(ctx, &core.Document{
		ID:          "demo-meeting",
		WorkspaceID: *workspace,
		Type:        core.DocumentTypeTranscript,
		Content:     content,
		CreatedBy:   "seeder",
		CreatedAt:   now,
	})

	// The canned summary only matches the canned transcript.
	if *seedFileName == "" {
		pipeline.Sync(ctx, &core.Document{
			ID:                  "demo-summary",
			WorkspaceID:         *workspace,
			Type:                core.DocumentTypeSummary,
			Content:             demoSummary,
			SourceTranscriptIDs: []string{"demo-meeting"},
			CreatedBy:           "seeder",
			CreatedAt:           now,
		})
	}
}
