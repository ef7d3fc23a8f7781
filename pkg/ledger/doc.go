// Package ledger records every configuration resolution.
//
// Each call to the resolver, whether from validate, a file change seen by
// watch or a scheduled realtime re-resolution, produces one Record: which
// file was resolved, the run mode, the resolved window or the error kind
// that stopped resolution, and how long it took. Records are written to a
// Storage backend (see the storage subpackage) and pruned by the retention
// subpackage.
//
// # Usage
//
//	store, err := storage.Open(settings)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := ledger.NewRecorder(store, nil)
//	cfg, err := resolver.Resolve(ctx, src)
//	rec.Record(ctx, ledger.Entry{Trigger: "validate", ConfigPath: path, Config: cfg, Err: err, Duration: d})
package ledger
