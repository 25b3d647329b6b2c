package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/carddelivery/internal/booking"
	"github.com/julianstephens/carddelivery/internal/catalog"
	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/formpage"
	"github.com/julianstephens/carddelivery/internal/logger"
	"github.com/julianstephens/carddelivery/internal/validation"
)

// ErrPageMismatch is returned when the live page disagrees with local validation.
var ErrPageMismatch = errors.New("live page disagrees with local validation")

// ProbeCmd submits the form on the live booking page and compares the page's
// verdict with local validation.
type ProbeCmd struct {
	FormFlags `embed:""`
	URL       string `help:"Booking page URL. Defaults to browser.base_url from the config file."`
	Headed    bool   `help:"Show the browser window."`
	Install   bool   `help:"Download the Playwright driver and browsers first."`
}

func (c *ProbeCmd) Run(ctx *cli.Context) error {
	input, err := c.Input(ctx)
	if err != nil {
		return err
	}

	browser := ctx.Config.Browser
	url := browser.BaseURL
	if c.URL != "" {
		url = c.URL
	}

	driver, err := formpage.NewPlaywrightDriver(formpage.PlaywrightOptions{
		Headless: browser.Headless && !c.Headed,
		Timeout:  browser.Timeout,
		Install:  c.Install,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := driver.Close(); err != nil {
			logger.Warn("Failed to close browser", "error", err)
		}
	}()

	page := formpage.New(driver, url, ctx.Catalog, ctx.Resolver)
	if err := page.Open(); err != nil {
		return err
	}
	if err := page.Book(input); err != nil {
		return err
	}

	local := ctx.Validator.Validate(input)
	if !local.HasErrors() {
		n, err := page.AwaitNotification(browser.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPageMismatch, err)
		}
		ctx.Println(cli.SuccessStyle.Render(n.Title))
		ctx.Println(n.Content)
		if mismatches := compareNotification(ctx.Catalog, input, n); len(mismatches) > 0 {
			for _, m := range mismatches {
				ctx.Println(cli.FailureStyle.Render("≠ " + m))
			}
			return ErrPageMismatch
		}
		return nil
	}

	remote, err := page.Result()
	if err != nil {
		return err
	}
	mismatches := compareResults(local, remote)
	printFailures(ctx, remote)
	if len(mismatches) > 0 {
		for _, m := range mismatches {
			ctx.Println(cli.FailureStyle.Render("≠ " + m))
		}
		return ErrPageMismatch
	}
	return nil
}

// compareNotification checks the success notification against the catalog title
// and the confirmation text for the submitted date.
func compareNotification(cat *catalog.Catalog, input validation.FormInput, n *booking.Notification) []string {
	var out []string
	if n.Title != cat.UI.NotificationTitle {
		out = append(out, fmt.Sprintf("notification title: page %q, want %q", n.Title, cat.UI.NotificationTitle))
	}
	date, err := dates.Parse(strings.TrimSpace(input.Date))
	if err != nil {
		return append(out, fmt.Sprintf("date %q: %v", input.Date, err))
	}
	if want := cat.Confirmation(date); !strings.Contains(n.Content, want) {
		out = append(out, fmt.Sprintf("notification content: page %q, want %q", n.Content, want))
	}
	return out
}

// compareResults lists the fields where the page disagrees with local validation.
// The page shows one failing field at a time, so only the first local failure
// must match and the page must not flag any field that passed locally.
func compareResults(local, remote validation.ValidationResult) []string {
	var out []string
	if failed := local.FailedFields(); len(failed) > 0 {
		f := failed[0]
		want := local.Errors[f]
		if got, _ := remote.Error(f); got != want {
			out = append(out, fmt.Sprintf("%s: page %q, local %q", f, got, want))
		}
	}
	for _, f := range remote.FailedFields() {
		if _, ok := local.Error(f); !ok {
			out = append(out, fmt.Sprintf("%s: page %q, local ok", f, remote.Errors[f]))
		}
	}
	return out
}
