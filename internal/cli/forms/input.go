// Package forms holds the commands that check and submit the delivery form.
package forms

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/validation"
)

// FormFlags are the form fields as command-line flags.
type FormFlags struct {
	City  string `help:"Delivery city." short:"c"`
	Date  string `help:"Delivery date as dd.mm.yyyy." short:"d"`
	Ahead *int   `help:"Use the date this many days from today instead of --date."`
	Name  string `help:"Surname and first name in Cyrillic." short:"n"`
	Phone string `help:"Phone number: + followed by 11 digits." short:"p"`
	Agree bool   `help:"Accept the personal data agreement." short:"a"`
	File  string `help:"Read the form from a YAML file; flags override its fields." type:"existingfile" short:"f"`
}

// formFile is the YAML shape accepted by --file.
type formFile struct {
	City  string `yaml:"city"`
	Date  string `yaml:"date"`
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Agree bool   `yaml:"agreement"`
}

// Input assembles the form from the file, the flags and the resolver.
func (f *FormFlags) Input(ctx *cli.Context) (validation.FormInput, error) {
	var in validation.FormInput

	if f.File != "" {
		data, err := os.ReadFile(f.File)
		if err != nil {
			return in, fmt.Errorf("failed to read form file: %w", err)
		}
		var ff formFile
		if err := yaml.Unmarshal(data, &ff); err != nil {
			return in, fmt.Errorf("failed to parse form file %q: %w", f.File, err)
		}
		in = validation.FormInput{
			City:              ff.City,
			Date:              ff.Date,
			Name:              ff.Name,
			Phone:             ff.Phone,
			AgreementAccepted: ff.Agree,
		}
	}

	if f.City != "" {
		in.City = f.City
	}
	if f.Date != "" {
		in.Date = f.Date
	}
	if f.Ahead != nil {
		in.Date = dates.Format(ctx.Resolver.Ahead(*f.Ahead))
	}
	if f.Name != "" {
		in.Name = f.Name
	}
	if f.Phone != "" {
		in.Phone = f.Phone
	}
	if f.Agree {
		in.AgreementAccepted = true
	}
	return in, nil
}

// printFailures writes the validation report in the failure style.
func printFailures(ctx *cli.Context, result validation.ValidationResult) {
	ctx.Println(cli.FailureStyle.Render("✗ " + heading(result.FormatReport(ctx.Catalog))))
	for _, f := range result.FailedFields() {
		key := result.Errors[f]
		msg := ctx.Catalog.Message(key)
		if msg == "" {
			msg = cli.MutedStyle.Render(string(key))
		}
		ctx.Println(cli.Field(string(f)+":", msg))
	}
}

func heading(report string) string {
	line, _, _ := strings.Cut(report, "\n")
	return strings.TrimSuffix(line, ":")
}
