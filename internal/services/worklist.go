package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/remoteindex/remoteindex/internal/db/repos"
	"github.com/remoteindex/remoteindex/internal/sources"
)

// errUnknownSource marks a worklist or prune item whose source has no
// registered adapter.
var errUnknownSource = errors.New("unknown source")

// WorkItem is one sync target: either a (source, company) pair for an ATS
// source or an aggregator pseudo-item fetched as a whole feed.
type WorkItem struct {
	Source  string
	Company string
	Pseudo  bool
}

// Key returns the dedup identity of the item.
func (i WorkItem) Key() string {
	if i.Pseudo {
		return i.Source
	}
	return i.Source + "/" + i.Company
}

func (i WorkItem) String() string {
	if i.Pseudo {
		return fmt.Sprintf("%s (feed)", i.Source)
	}
	return fmt.Sprintf("%s/%s", i.Source, i.Company)
}

// Worklist is the deduplicated, deterministically sorted list of sync
// targets. It is built on demand from storage; there is no hidden
// process-wide cache, so concurrent invocations cannot diverge.
type Worklist struct {
	items []WorkItem
}

// BuildWorklist derives the worklist from the discovered companies and the
// registered aggregator sources, restricted to wantedSources when non-empty.
func BuildWorklist(ctx context.Context, companies *repos.CompanyRepository, registry *sources.Registry, wantedSources []string) (*Worklist, error) {
	wanted := make(map[string]bool, len(wantedSources))
	for _, s := range wantedSources {
		wanted[s] = true
	}
	include := func(source string) bool {
		return len(wanted) == 0 || wanted[source]
	}

	seen := make(map[string]bool)
	var items []WorkItem

	discovered, err := companies.ListDiscovered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build worklist: %w", err)
	}
	for _, company := range discovered {
		src := registry.Get(company.Source)
		if src == nil || !src.PerCompany() || !include(company.Source) {
			continue
		}
		item := WorkItem{Source: company.Source, Company: company.Slug}
		if seen[item.Key()] {
			continue
		}
		seen[item.Key()] = true
		items = append(items, item)
	}

	for _, name := range registry.Names() {
		src := registry.Get(name)
		if src.PerCompany() || !include(name) {
			continue
		}
		item := WorkItem{Source: name, Pseudo: true}
		if seen[item.Key()] {
			continue
		}
		seen[item.Key()] = true
		items = append(items, item)
	}

	sort.Slice(items, func(a, b int) bool {
		return items[a].Key() < items[b].Key()
	})
	return &Worklist{items: items}, nil
}

// Len returns the number of sync targets.
func (w *Worklist) Len() int {
	return len(w.items)
}

// Items returns the full ordered target list.
func (w *Worklist) Items() []WorkItem {
	return w.items
}

// Window returns the fixed-size window starting at the cursor, clamped to
// the list end, together with the next cursor position. The cursor wraps to
// 0 when the window reaches the end of the list.
func (w *Worklist) Window(start, size int) ([]WorkItem, int) {
	if len(w.items) == 0 || size <= 0 {
		return nil, 0
	}
	if start < 0 || start >= len(w.items) {
		start = 0
	}
	end := start + size
	if end > len(w.items) {
		end = len(w.items)
	}
	next := end
	if next >= len(w.items) {
		next = 0
	}
	return w.items[start:end], next
}
