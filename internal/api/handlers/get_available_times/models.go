package get_available_times

import (
	getAvailableTimes "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_times"
)

// FromUseCaseResponse конвертирует ответ use case в список "HH:MM:SS"
func FromUseCaseResponse(resp *getAvailableTimes.Response) []string {
	times := make([]string, len(resp.Times))
	for i, t := range resp.Times {
		times[i] = t.ISO()
	}
	return times
}
