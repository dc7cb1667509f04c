package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/expertprofile/internal/client/page"
	"github.com/dmitrijs2005/expertprofile/internal/models"
	"github.com/dmitrijs2005/expertprofile/internal/netx"
	"github.com/dmitrijs2005/expertprofile/internal/timex"
)

// downloadRevision is a test seam for netx.DownloadPresignedURL.
var downloadRevision = netx.DownloadPresignedURL

// misuse keeps the errors that explain a wrong command. Fetch and save
// failures are already shown as notifications, so they are dropped here.
func misuse(err error) error {
	for _, target := range []error{
		page.ErrNotLoaded,
		page.ErrNotEditing,
		page.ErrEditing,
		page.ErrNothingToRetry,
		page.ErrSessionNotFound,
	} {
		if errors.Is(err, target) {
			return err
		}
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {
	return page.Render(a.out, a.page.View())
}

func (a *App) Edit(ctx context.Context) error {
	if err := a.page.Edit(); err != nil {
		return err
	}
	return a.Show(ctx)
}

// Save submits the edits and draws the result. A failed save still draws
// the page: the edits stay on screen marked unsynced.
func (a *App) Save(ctx context.Context) error {
	return a.showAfter(ctx, a.page.Save(ctx))
}

func (a *App) Toggle(ctx context.Context) error {
	return a.showAfter(ctx, a.page.Toggle(ctx))
}

func (a *App) Retry(ctx context.Context) error {
	return a.showAfter(ctx, a.page.Retry(ctx))
}

// Reload drops unsynced changes and fetches the profile again.
func (a *App) Reload(ctx context.Context) error {
	return a.showAfter(ctx, a.page.Reload(ctx))
}

func (a *App) showAfter(ctx context.Context, err error) error {
	if err := misuse(err); err != nil {
		return err
	}
	return a.Show(ctx)
}

func (a *App) SetName(ctx context.Context, v string) error {
	return a.page.Mutate(func(s *page.EditSession) error {
		s.SetName(v)
		return nil
	})
}

func (a *App) SetWallet(ctx context.Context, v string) error {
	return a.page.Mutate(func(s *page.EditSession) error {
		s.SetWalletAddress(v)
		return nil
	})
}

func (a *App) SetRate(ctx context.Context, v string) error {
	return a.page.Mutate(func(s *page.EditSession) error {
		return s.SetHourlyRate(v)
	})
}

func (a *App) ToggleDay(ctx context.Context, v string) error {
	day, err := models.ParseWeekDay(v)
	if err != nil {
		return err
	}
	return a.page.Mutate(func(s *page.EditSession) error {
		return s.ToggleWeekDay(day)
	})
}

func (a *App) SetFrom(ctx context.Context, v string) error {
	t, err := timex.ParseTimeOfDay(v)
	if err != nil {
		return err
	}
	return a.page.Mutate(func(s *page.EditSession) error {
		return s.SetStartTime(t)
	})
}

func (a *App) SetTo(ctx context.Context, v string) error {
	t, err := timex.ParseTimeOfDay(v)
	if err != nil {
		return err
	}
	return a.page.Mutate(func(s *page.EditSession) error {
		return s.SetEndTime(t)
	})
}

func (a *App) AddTag(ctx context.Context, v string) error {
	return a.page.Mutate(func(s *page.EditSession) error {
		if !s.TagInput().Add(v) {
			return fmt.Errorf("tag %q is already set", v)
		}
		return nil
	})
}

func (a *App) RemoveTag(ctx context.Context, v string) error {
	return a.page.Mutate(func(s *page.EditSession) error {
		if !s.TagInput().Remove(v) {
			return fmt.Errorf("no tag %q", v)
		}
		return nil
	})
}

// Suggest lists the tag suggestions matching prefix.
func (a *App) Suggest(ctx context.Context, prefix string) error {
	var list []string
	err := a.page.Mutate(func(s *page.EditSession) error {
		list = s.TagInput().Suggest(prefix)
		return nil
	})
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No suggestions")
		return nil
	}
	printlnFn("Suggestions: " + strings.Join(list, ", "))
	return nil
}

func (a *App) Diff(ctx context.Context) error {
	changes, err := a.page.Diff()
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		printlnFn("No changes")
		return nil
	}
	for _, c := range changes {
		printlnFn(fmt.Sprintf("  %s: %q -> %q", c.Field, c.From, c.To))
	}
	return nil
}

// Revision prints the archived JSON of one saved version.
func (a *App) Revision(ctx context.Context, v string) error {
	version, err := strconv.ParseInt(v, 10, 64)
	if err != nil || version < 1 {
		return fmt.Errorf("invalid version %q", v)
	}

	url, err := a.profiles.RevisionURL(ctx, version)
	if err != nil {
		return fmt.Errorf("revision url: %w", err)
	}

	data, err := downloadRevision(ctx, url)
	if err != nil {
		return err
	}
	printlnFn(string(data))
	return nil
}
