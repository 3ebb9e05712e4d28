// Package quasar provides a connector layer that lets a host
// data-processing engine launch work against a remote analytics
// warehouse and reliably wait for it to finish.
//
// Remote warehouses execute bulk loads, exports and materializations
// asynchronously: the engine gets back an opaque job handle and the
// only way to learn the job's fate is to poll a status endpoint. Quasar
// packages that polling loop once, correctly:
//
//   - pkg/poll is a generic exponentially-backed-off polling scheduler
//     with a wait handle the caller can block on, with or without a
//     deadline.
//   - pkg/connector/verify applies the scheduler to a job's status
//     query and turns the final observed status into either a normal
//     return or a structured error (operation failure, iteration
//     budget exhausted, overall timeout, probe fault).
//   - pkg/connector/snowflake and pkg/connector/bigquery are thin
//     StatusQuery implementations over the vendor SDKs.
//
// # Quick start
//
//	query, err := snowflake.NewStatusQuery(cfg.Snowflake)
//	if err != nil {
//	    return err
//	}
//	defer query.Close()
//
//	v := verify.New(query)
//	outcome, err := v.Await(ctx, core.JobHandle(jobID), 2*time.Second, 10*time.Minute)
//	if err != nil {
//	    return err // timeout, operation failure or probe fault
//	}
//	_ = outcome.LastStatus // terminal status snapshot
//
// The scheduler guarantees exactly one probe in flight at a time,
// doubles the inter-probe delay up to a one-minute ceiling, and never
// resolves its wait handle twice.
package quasar
