package cli

import (
	"github.com/julianstephens/habitual/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair malformed and repeated completion dates."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	habits, err := ctx.Service.List()
	if err != nil {
		return err
	}

	ctx.println("Validating habits...")
	result := ctx.Service.Validator().ValidateHabits(habits, ctx.Service.Clock().Now())

	ctx.println()
	ctx.println(result.FormatReport())

	if !cmd.Fix || !result.HasConflicts() {
		return nil
	}

	actions := validation.AutoFixCompletionDates(result.Conflicts, habits, ctx.Store.Replace)
	if len(actions) == 0 {
		ctx.println("Nothing to fix automatically.")
		return nil
	}
	for _, a := range actions {
		ctx.printf("- %s\n", a.Action)
	}
	return nil
}
