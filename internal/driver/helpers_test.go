package driver

import "github.com/RPDevJesco/EventChains-BuildSystem/internal/common"

func common_stubStats(total, compiled, skipped, failed int) common.BuildStatistics {
	return common.BuildStatistics{
		TotalUnits:    total,
		CompiledUnits: compiled,
		SkippedUnits:  skipped,
		FailedUnits:   failed,
	}
}
