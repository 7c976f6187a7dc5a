// SPDX-License-Identifier: MPL-2.0

package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"assetforge/pkg/asset"
)

// defaultPrefetchLimit bounds concurrent remote fetches during Prefetch.
const defaultPrefetchLimit = 8

// Prefetch resolves every registered remote asset's text concurrently, so a
// later export or document composition never stalls serially on N fetches.
// The first failure cancels the remaining fetches and is returned as that
// asset's FetchError. Successfully fetched assets stay cached either way.
func (s *Store) Prefetch(ctx context.Context) error {
	s.mu.RLock()
	var remotes []*asset.Asset
	for _, name := range s.assetOrder.Keys() {
		if a := s.assets[name]; a != nil && a.IsRemote() {
			remotes = append(remotes, a)
		}
	}
	s.mu.RUnlock()

	if len(remotes) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultPrefetchLimit)
	for _, a := range remotes {
		g.Go(func() error {
			_, err := a.Text(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Debug("prefetched remote assets", "count", len(remotes))
	return nil
}
