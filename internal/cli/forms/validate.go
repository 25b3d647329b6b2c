package forms

import (
	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/errors"
)

// ValidateCmd checks a form without submitting it.
type ValidateCmd struct {
	FormFlags `embed:""`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	input, err := c.Input(ctx)
	if err != nil {
		return err
	}

	result := ctx.Validator.Validate(input)
	if result.HasErrors() {
		printFailures(ctx, result)
		return errors.ErrInvalidForm
	}

	ctx.Println(cli.SuccessStyle.Render("✓ " + result.FormatReport(ctx.Catalog)))
	return nil
}
