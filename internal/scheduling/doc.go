// Package scheduling orchestrates the availability engine and its
// collaborators: it fetches busy time from a calendar, runs the slot
// finder, books meetings and sends confirmations.
//
// Collaborators are injected through small interfaces so the service can be
// exercised without any Google API in tests:
//
//	svc := scheduling.NewService(cfg, source, booker,
//	    scheduling.WithNotifier(notifier),
//	    scheduling.WithLogger(logger))
//
//	rec, err := svc.GetSchedule(ctx, scheduling.ScheduleQuery{DurationMinutes: 30})
package scheduling
