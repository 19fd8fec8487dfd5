package worker

import (
	"github.com/skillmatch/skillmatch/internal/service"
)

// StartFanoutWorker registers the notification fan-out handlers.
func StartFanoutWorker(fanoutService *service.FanoutService) {
	if fanoutService == nil {
		return
	}
	fanoutService.RegisterHandlers()
}
