package cli

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized habitual storage at: %s\n", ctx.Provider.GetConfigPath())
	return nil
}
