// Command register fills in a hackathon registration form from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hackathon-hub/registration-api/internal/forms"
	"github.com/hackathon-hub/registration-api/pkg/httpclient"
	"github.com/hackathon-hub/registration-api/pkg/logger"
	"github.com/hackathon-hub/registration-api/pkg/regclient"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	flags := pflag.NewFlagSet("register", pflag.ExitOnError)
	flags.String("api-url", "http://localhost:8080", "base URL of the registration API")
	flags.String("hackathon", "", "hackathon id")
	flags.Duration("timeout", 15*time.Second, "timeout of each HTTP request")
	flags.String("log-level", "warn", "log level")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	v.SetEnvPrefix("REGISTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(2)
	}

	hackathonID := v.GetString("hackathon")
	if hackathonID == "" {
		fmt.Fprintln(os.Stderr, "--hackathon is required")
		flags.Usage()
		os.Exit(2)
	}

	if err := logger.Initialize(logger.Config{
		Level:       v.GetString("log-level"),
		Environment: "development",
		ServiceName: "register-cli",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := regclient.NewClient(v.GetString("api-url"), httpclient.NewClientWithTimeout(v.GetDuration("timeout")))
	p := newPrompter(os.Stdin, os.Stdout)

	if err := run(context.Background(), client, hackathonID, p); err != nil {
		logger.Debug("Registration ended with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, client *regclient.Client, hackathonID string, p *prompter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session, err := client.Open(ctx, hackathonID)
	if err != nil {
		p.printf("نموذج التسجيل غير متوفر\n")
		return err
	}

	form := session.Form()
	p.printf("%s\n", form.Title)
	if form.Description != "" {
		p.printf("%s\n", form.Description)
	}

	if err := waitUntilOpen(ctx, session, p); err != nil {
		return err
	}

	watcher := closingWatcher(ctx, session)
	go watcher.Run(ctx)

	if err := fill(session, p, nil); err != nil {
		return err
	}

	for {
		result, err := session.Submit(ctx)
		if err != nil {
			return err
		}

		switch result.Outcome {
		case regclient.OutcomeSubmitted:
			p.printf("\n%s\n", result.Message)
			if result.RedirectURL != "" {
				time.Sleep(result.RedirectAfter)
				p.printf("%s\n", result.RedirectURL)
			}
			return nil

		case regclient.OutcomeAlreadyRegistered:
			p.printf("\n%s\n", result.Message)
			return nil

		case regclient.OutcomeInvalid:
			if err := fill(session, p, result.Errors); err != nil {
				return err
			}

		case regclient.OutcomeFailed:
			p.printf("\n%s\n", result.Message)
			if watcher.State() == forms.GateClosed {
				return errors.New("registration closed")
			}
			if len(result.Errors) > 0 {
				if err := fill(session, p, result.Errors); err != nil {
					return err
				}
				continue
			}
			if !p.confirm("إعادة المحاولة؟") {
				return errors.New("submission failed")
			}
		}
	}
}

// closingWatcher watches the window of the form the session holds at call
// time, which may differ from the one first loaded if the form was reloaded.
func closingWatcher(ctx context.Context, session *regclient.Session) *forms.GateWatcher {
	form := session.Form()
	return forms.NewGateWatcher(form.OpenAt, form.CloseAt, func() {
		if err := session.Reload(ctx); err != nil {
			logger.Warn("Failed to reload form after the window changed", zap.Error(err))
		}
	})
}

// waitUntilOpen shows a countdown while the form is not yet open and reloads
// the form once the window opens.
func waitUntilOpen(ctx context.Context, session *regclient.Session, p *prompter) error {
	switch session.Status() {
	case forms.GateOpen:
		return nil
	case forms.GateDisabled:
		p.printf("التسجيل غير متاح حالياً\n")
		return errors.New("form disabled")
	case forms.GateClosed:
		p.printf("انتهى التسجيل\n")
		return errors.New("form closed")
	}

	form := session.Form()
	opened := make(chan struct{})
	var once sync.Once

	watcher := forms.NewGateWatcher(form.OpenAt, form.CloseAt,
		func() {
			if err := session.Reload(ctx); err != nil {
				logger.Warn("Failed to reload form after the window changed", zap.Error(err))
			}
		},
		forms.WithTickHook(func(state forms.GateState, now time.Time) {
			if state != forms.GateNotYetOpen {
				once.Do(func() { close(opened) })
				return
			}
			if wait, ok := forms.UntilNextTransition(now, form.OpenAt, form.CloseAt); ok {
				p.printf("\rيبدأ التسجيل بعد %s ", formatCountdown(wait))
			}
		}))

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()
	go watcher.Run(watchCtx)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-opened:
	}
	p.printf("\n")

	if session.Status() != forms.GateOpen {
		p.printf("التسجيل غير متاح حالياً\n")
		return fmt.Errorf("form is %s", session.Status())
	}
	return nil
}

// fill prompts for visible fields. With problems set, only those fields are asked again.
func fill(session *regclient.Session, p *prompter, problems map[string]string) error {
	form := session.Form()
	for i := range form.Fields {
		field := &form.Fields[i]
		if !forms.ShouldShow(field, session.Answers()) {
			continue
		}
		problem, flagged := problems[field.ID]
		if problems != nil && !flagged {
			continue
		}

		answer, err := p.ask(field, session.Answers()[field.ID], problem)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("input closed")
			}
			return err
		}
		session.Set(field.ID, answer)
	}
	return nil
}
