package commands

import (
	"fmt"

	"git.home.luguber.info/inful/hrmslite/internal/coordinator"
	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/service"
)

// HealthCmd implements 'health'.
type HealthCmd struct{}

func (h *HealthCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	timeout, err := cfg.ServiceTimeout()
	if err != nil {
		return err
	}
	client, err := service.New(service.Options{BaseURL: cfg.Service.BaseURL, Timeout: timeout, UserAgent: cfg.Service.UserAgent})
	if err != nil {
		return err
	}
	client.SetLogger(g.logger())

	msg, err := client.Health(g.context())
	if err != nil {
		return ferrors.NetworkError("health check failed").
			WithCause(err).
			WithUserMessage(coordinator.MsgServiceUnreachable).
			WithContext("base_url", cfg.Service.BaseURL).
			Build()
	}
	_, err = fmt.Fprintf(g.out(), "%s (%s)\n", msg, cfg.Service.BaseURL)
	return err
}
