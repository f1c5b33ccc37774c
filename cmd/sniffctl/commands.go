package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/resourcesniffer/sniffercore/backend"
	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/downloader"
	"github.com/resourcesniffer/sniffercore/netspeed"
	"github.com/resourcesniffer/sniffercore/server"
	"github.com/resourcesniffer/sniffercore/stats"
)

func splitURLs(raw string) []string {
	var out []string
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func resourceFor(rawURL string) *cluster.Resource {
	return &cluster.Resource{
		URL:       rawURL,
		Type:      cmn.InferType(rawURL, ""),
		Source:    cmn.SourceDOM,
		Timestamp: time.Now().UnixMilli(),
	}
}

func newCore() *server.Core {
	reg := backend.NewRegistry(&fasthttp.Client{})
	resumable := downloader.NewResumableStore(cmn.NewMemKV(), 0)
	return server.NewCore(reg, resumable, stats.NewNopSink(), 4)
}

func runResources(args []string) error {
	fs := flag.NewFlagSet("resources", flag.ExitOnError)
	tab := fs.String("tab", "cli", "tab id to add the resources under")
	urls := fs.String("urls", "", "comma-separated resource urls to analyze and add")
	if err := fs.Parse(args); err != nil {
		return err
	}
	list := splitURLs(*urls)
	if len(list) == 0 {
		return cmn.InvalidInputf("resources: -urls is required")
	}

	core := newCore()
	records := make([]*cluster.Resource, len(list))
	for i, u := range list {
		records[i] = resourceFor(u)
	}
	ctx := context.Background()
	addResp := core.Handle(ctx, server.Message{Action: server.ActionAddDOMResources, TabID: *tab, Payload: records})
	if !addResp.Success {
		return fmt.Errorf("add resources: %s", addResp.Error)
	}

	getResp := core.Handle(ctx, server.Message{Action: server.ActionGetResources, TabID: *tab})
	if !getResp.Success {
		return fmt.Errorf("get resources: %s", getResp.Error)
	}
	got, _ := getResp.Data.([]*cluster.Resource)
	fmt.Printf("tab %q: %d resource(s)\n", *tab, len(got))
	for _, r := range got {
		fmt.Printf("  %-6s score=%-4d quality=%-8s %s\n", r.Type, r.Score, r.TextualQuality(), r.URL)
	}
	return nil
}

// runDownload builds its own Scheduler rather than going through
// server.Core, since Core's DOWNLOAD_RESOURCE payload type is an
// implementation detail of the worker-protocol boundary (spec §6), not
// something this standalone tool should reach through reflection or a
// parallel exported type just to drive one download.
func runDownload(args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	urls := fs.String("urls", "", "comma-separated resource urls to download")
	out := fs.String("out", ".", "destination directory for downloaded files")
	timeout := fs.Duration("timeout", 30*time.Second, "how long to watch the queue before giving up")
	if err := fs.Parse(args); err != nil {
		return err
	}
	list := splitURLs(*urls)
	if len(list) == 0 {
		return cmn.InvalidInputf("download: -urls is required")
	}

	cfg := cmn.DefaultConfig()
	cfg.DefaultPath = *out
	if err := cmn.GCO.Update(cfg); err != nil {
		return err
	}

	reg := backend.NewRegistry(&fasthttp.Client{})
	speed := netspeed.New()
	resumable := downloader.NewResumableStore(cmn.NewMemKV(), 0)
	sched := downloader.NewScheduler(reg, speed, resumable, stats.NewNopSink())

	for _, u := range list {
		if _, ok := sched.Enqueue(resourceFor(u), downloader.Options{}); !ok {
			fmt.Printf("skipped %s: already has an in-flight download with the same fingerprint\n", u)
		}
	}

	deadline := time.Now().Add(*timeout)
	for time.Now().Before(deadline) && len(sched.QueueSnapshot()) > 0 {
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Println("final state:")
	for _, d := range sched.History() {
		fmt.Printf("  %s  %-11s %d/%d bytes  %s\n", d.ID, d.State, d.BytesReceived, d.TotalBytes, d.URL)
	}
	for _, d := range sched.QueueSnapshot() {
		fmt.Printf("  %s  %-11s %d/%d bytes  %s  (still in flight after -timeout)\n", d.ID, d.State, d.BytesReceived, d.TotalBytes, d.URL)
	}
	return nil
}

func runSpeed(args []string) error {
	fs := flag.NewFlagSet("speed", flag.ExitOnError)
	samplesPath := fs.String("samples", "", "file of \"timestamp_millis bytes elapsed_seconds\" lines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	est := netspeed.New()
	if *samplesPath != "" {
		if err := loadSamples(est, *samplesPath); err != nil {
			return err
		}
	}
	fmt.Printf("current estimate: %.2f Mbps\n", est.Current())
	analysis := est.Analyze()
	fmt.Printf("best hour of day: %02d:00 (avg %.2f Mbps over %d samples)\n", analysis.BestHour, analysis.BestHourAvgMbps, analysis.BestHourCount)
	fmt.Printf("trend: %s\n", analysis.Trend)
	for _, rec := range analysis.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
	return nil
}

func loadSamples(est *netspeed.Estimator, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return cmn.StorageErrorf("open %s: %v", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return cmn.InvalidInputf("samples line %d: expected 3 fields, got %d", line, len(fields))
		}
		ts, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return cmn.InvalidInputf("samples line %d: bad timestamp: %v", line, err)
		}
		bytes, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return cmn.InvalidInputf("samples line %d: bad byte count: %v", line, err)
		}
		elapsed, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return cmn.InvalidInputf("samples line %d: bad elapsed seconds: %v", line, err)
		}
		est.Record(ts, bytes, elapsed)
	}
	return sc.Err()
}

func runResumable(args []string) error {
	fs := flag.NewFlagSet("resumable", flag.ExitOnError)
	dbPath := fs.String("db", "", "path to the buntdb file backing the resumable store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		return cmn.InvalidInputf("resumable: -db is required")
	}

	kv, err := cmn.OpenBuntKV(*dbPath)
	if err != nil {
		return err
	}
	defer kv.Close()

	store := downloader.NewResumableStore(kv, 0)
	entries, err := store.All()
	if err != nil {
		return err
	}
	fmt.Printf("%d resumable download(s) in %s\n", len(entries), *dbPath)
	for _, e := range entries {
		fmt.Printf("  %s  %d/%d bytes  %s\n", e.DownloadID, e.BytesReceived, e.TotalBytes, e.URL)
	}
	return nil
}
