package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "jira2md",
		Short:         "Convert Jira XML exports to Markdown",
		Long:          "jira2md turns Jira issue XML exports into Markdown documents with YAML front-matter, filed by status.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	verbose bool

	initHandler       = handleInit
	convertHandler    = handleConvert
	previewHandler    = handlePreview
	inspectHandler    = handleInspect
	openHandler       = handleOpen
	fetchHandler      = handleFetch
	exportHandler     = handleExport
	configShowHandler = handleConfigShow
	configSetHandler  = handleConfigSet
	configValHandler  = handleConfigValidate
	configPathHandler = handleConfigPath
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
}

// inputArgs requires an input path and allows an optional output directory.
func inputArgs(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return fmt.Errorf("missing required argument\nUsage: %s", cmd.UseLine())
	case len(args) > 2:
		return fmt.Errorf("too many arguments\nUsage: %s", cmd.UseLine())
	}
	return nil
}

func optionalArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the jira2md configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initHandler()
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <xml-file> [output-dir]",
	Short: "Convert a Jira XML export to Markdown",
	Args:  inputArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return convertHandler(args[0], optionalArg(args, 1))
	},
}

var previewHTML bool

var previewCmd = &cobra.Command{
	Use:   "preview <xml-file>",
	Short: "Print the converted document without writing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return previewHandler(args[0], previewHTML)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <md-file>",
	Short: "Show the metadata of a converted document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspectHandler(args[0])
	},
}

var openCmd = &cobra.Command{
	Use:   "open <md-file>",
	Short: "Open the Jira issue behind a converted document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return openHandler(args[0])
	},
}

var fetchSaveXML bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <issue-key> [output-dir]",
	Short: "Download an issue's XML export from Jira and convert it",
	Args:  inputArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchHandler(args[0], optionalArg(args, 1), fetchSaveXML)
	},
}

var exportOpts = exportOptions{}

var exportCmd = &cobra.Command{
	Use:   "export --jql <query> [output-dir]",
	Short: "Convert every issue matching a JQL query",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOpts.JQL == "" {
			return fmt.Errorf("--jql is required\nUsage: %s", cmd.UseLine())
		}
		if exportOpts.Limit <= 0 {
			exportOpts.Limit = 50
		}
		exportOpts.OutputDir = optionalArg(args, 0)
		return exportHandler(exportOpts)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowHandler()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetHandler(args[0], args[1])
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configValHandler()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config path",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configPathHandler()
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewHTML, "html", false, "Render HTML instead of Markdown")

	fetchCmd.Flags().BoolVar(&fetchSaveXML, "save-xml", false, "Keep the downloaded XML next to the document")

	exportCmd.Flags().StringVar(&exportOpts.JQL, "jql", "", "JQL query selecting the issues")
	exportCmd.Flags().IntVar(&exportOpts.Limit, "limit", 50, "Maximum number of issues")

	configCmd.AddCommand(configShowCmd, configSetCmd, configValidateCmd, configPathCmd)
}
