// Package dedup implements the Deduplicator (spec §4.3): exact-fingerprint
// collision resolution followed by similarity clustering, producing
// {uniques, duplicates, similars} with exactly one representative per
// equivalence class.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package dedup

import (
	"net/url"

	"github.com/seiflotfy/cuckoofilter"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

// Result is the Deduplicator's output (spec §4.3 Responsibility).
type Result struct {
	Uniques    []*cluster.Resource
	Duplicates []*cluster.Resource
	Similars   []*cluster.Resource
}

// Dedup implements the three-stage algorithm from spec §4.3: partition by
// type, resolve exact-fingerprint collisions via the representative rule,
// then similarity-cluster what remains.
func Dedup(records []*cluster.Resource) *Result {
	res := &Result{}

	byType := make(map[cmn.ResourceType][]*cluster.Resource, 4)
	for _, r := range records {
		byType[r.Type] = append(byType[r.Type], r)
	}

	for _, partition := range byType {
		uniques := resolveExact(partition, res)
		similarityCluster(uniques, res)
	}
	return res
}

// resolveExact runs stage 2: a cuckoo filter pre-checks "have we possibly
// seen this fingerprint" before the authoritative map lookup, the same
// has-it-maybe-already/confirm-via-map two-step the teacher's own
// bloom/cuckoo-backed existence checks use ahead of an exact index lookup.
// A cuckoo filter never false-negatives, so nothing is skipped; it only
// elides the map lookup on a guaranteed miss.
func resolveExact(partition []*cluster.Resource, res *Result) []*cluster.Resource {
	filter := cuckoofilter.NewFilter(1024)
	byFingerprint := make(map[string]*cluster.Resource, len(partition))
	order := make([]string, 0, len(partition))

	uniques := make([]*cluster.Resource, 0, len(partition))
	for _, r := range partition {
		fp := r.EnsureFingerprint()
		if _, err := url.Parse(r.URL); err != nil {
			// unparseable URL: pass through unchanged, never merged (spec
			// §4.3 Failure).
			res.Uniques = append(res.Uniques, r)
			continue
		}

		// The filter never false-negatives: a miss here is a guaranteed
		// first sighting, skipping the map lookup entirely. A hit still
		// needs the map to confirm (cuckoo filters do false-positive).
		if filter.Lookup([]byte(fp)) {
			if existing, ok := byFingerprint[fp]; ok {
				winner, loser := representative(existing, r)
				byFingerprint[fp] = winner
				loser.DuplicateOf = winner.URL
				res.Duplicates = append(res.Duplicates, loser)
				continue
			}
		}

		filter.InsertUnique([]byte(fp))
		byFingerprint[fp] = r
		order = append(order, fp)
	}

	for _, fp := range order {
		uniques = append(uniques, byFingerprint[fp])
	}
	return uniques
}

// representative implements the "keep the record with the higher
// quality-score" rule (spec §4.3); ties favor the first-seen (existing)
// record, preserving submission order per spec §5's ordering guarantee.
func representative(existing, candidate *cluster.Resource) (winner, loser *cluster.Resource) {
	if cluster.QualityScore(candidate) > cluster.QualityScore(existing) {
		return candidate, existing
	}
	return existing, candidate
}
