package tui

import "github.com/Veraticus/the-subs-must-go/internal/model"

type analysisLoadedMsg struct {
	usage []model.ServiceUsage
}

type cancelRequestedMsg struct {
	err     error
	request model.CancellationRequest
}

type cancelFinishedMsg struct {
	err     error
	request model.CancellationRequest
}
