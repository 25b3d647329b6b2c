package formpage

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightOptions configures the Chromium instance behind a PlaywrightDriver.
type PlaywrightOptions struct {
	Headless bool
	// Timeout is the default wait for element actions.
	Timeout time.Duration
	// Install downloads the driver and browsers before starting.
	Install bool
}

// PlaywrightDriver implements Driver with a single Chromium page.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

var _ Driver = (*PlaywrightDriver)(nil)

func NewPlaywrightDriver(opts PlaywrightOptions) (*PlaywrightDriver, error) {
	if opts.Install {
		if err := playwright.Install(); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	if opts.Timeout > 0 {
		page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))
	}

	return &PlaywrightDriver{pw: pw, browser: browser, page: page}, nil
}

// Close releases the page, the browser and the playwright driver.
func (d *PlaywrightDriver) Close() error {
	var errs []string
	if err := d.page.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := d.browser.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := d.pw.Stop(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close playwright: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (d *PlaywrightDriver) first(selector string) playwright.Locator {
	return d.page.Locator(selector).First()
}

func (d *PlaywrightDriver) Open(url string) error {
	_, err := d.page.Goto(url)
	return err
}

func (d *PlaywrightDriver) Fill(selector, value string) error {
	return d.first(selector).Fill(value)
}

func (d *PlaywrightDriver) Clear(selector string) error {
	return d.first(selector).Clear()
}

func (d *PlaywrightDriver) Click(selector string) error {
	return d.first(selector).Click()
}

func (d *PlaywrightDriver) ClickText(selector, text string) error {
	exact := regexp.MustCompile("^\\s*" + regexp.QuoteMeta(text) + "\\s*$")
	return d.page.Locator(selector).
		Filter(playwright.LocatorFilterOptions{HasText: exact}).
		First().
		Click()
}

func (d *PlaywrightDriver) Text(selector string) (string, error) {
	text, err := d.first(selector).InnerText()
	return strings.TrimSpace(text), err
}

func (d *PlaywrightDriver) Texts(selector string) ([]string, error) {
	texts, err := d.page.Locator(selector).AllInnerTexts()
	if err != nil {
		return nil, err
	}
	for i := range texts {
		texts[i] = strings.TrimSpace(texts[i])
	}
	return texts, nil
}

func (d *PlaywrightDriver) Value(selector string) (string, error) {
	return d.first(selector).InputValue()
}

func (d *PlaywrightDriver) Visible(selector string) (bool, error) {
	return d.first(selector).IsVisible()
}

func (d *PlaywrightDriver) Exists(selector string) (bool, error) {
	n, err := d.page.Locator(selector).Count()
	return n > 0, err
}

func (d *PlaywrightDriver) WaitVisible(selector string, timeout time.Duration) error {
	return d.first(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}
