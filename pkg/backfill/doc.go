// Package backfill creates or refreshes one comparison notebook per
// package pair and records the notebook ids.
//
// A run loads the notebook map, asks the permutation source for pairs and
// then, strictly one pair at a time, upserts the pair's notebook (passing
// the stored id when there is one), stores the returned id and saves the
// whole map before moving on. The first failure ends the run; everything
// saved up to that point stays saved, so a rerun resumes where the last
// one stopped.
//
//	r := &backfill.Runner{
//	    Store:    storage.NewFileStore("db/notebooks.json"),
//	    Source:   permutations.ListSource{Packages: pkgs},
//	    Upserter: upserter,
//	}
//	res, err := r.Run(ctx)
package backfill
