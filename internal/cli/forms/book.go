package forms

import (
	"context"

	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/errors"
)

// BookCmd validates the form and records the booking in the journal.
type BookCmd struct {
	FormFlags `embed:""`
}

func (c *BookCmd) Run(ctx *cli.Context) error {
	input, err := c.Input(ctx)
	if err != nil {
		return err
	}

	// Reject an invalid form before touching the journal.
	if result := ctx.Validator.Validate(input); result.HasErrors() {
		printFailures(ctx, result)
		return errors.ErrInvalidForm
	}

	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}

	outcome, err := ctx.BookingService(store).Book(context.Background(), input)
	if err != nil {
		return err
	}
	if !outcome.Accepted() {
		printFailures(ctx, outcome.Result)
		return errors.ErrInvalidForm
	}

	ctx.Println(cli.SuccessStyle.Render(outcome.Notification.Title))
	ctx.Println(outcome.Notification.Content)
	ctx.Println(cli.Field("Booking ID:", outcome.Confirmation.BookingID))
	return nil
}
