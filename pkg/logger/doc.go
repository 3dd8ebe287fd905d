// Package logger builds slog.Logger instances with consistent defaults
// for the parkd services.
//
// The factory supports text output for development and JSON output for
// production log aggregation. Attribute helpers keep log field names
// consistent across packages:
//
//	log := logger.New(
//		logger.WithProduction("parkd"),
//	)
//	log.Info("vehicle entered", logger.Plate("B1234XYZ"), logger.AreaID(area.ID))
package logger
