package cli

type helpCommand struct {
	cli *CLI
}

func (cmd *helpCommand) Execute(_ []string) error {
	cmd.cli.parser.WriteHelp(cmd.cli.stdout)
	return nil
}
