// Package logging provides structured logging helpers built on log/slog.
//
// It centralizes attribute keys so tools, the scheduling service and the
// Google clients log the same fields under the same names, and it keeps
// attendee addresses out of log output by hashing them.
//
//	logger := logging.WithOperation(slog.Default(), "schedule.find")
//	logger.Info("slots computed",
//	    logging.SlotCount(len(slots)),
//	    logging.Status(logging.StatusSuccess))
//
// Anonymize addresses before logging:
//
//	logger.Info("confirmation sent", logging.Attendee(addr))
package logging
