package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/Ilia01/jira2md/internal/config"
	"github.com/Ilia01/jira2md/internal/convert"
	"github.com/Ilia01/jira2md/internal/jira"
	"github.com/Ilia01/jira2md/internal/logging"
	"github.com/Ilia01/jira2md/internal/models"
	"github.com/Ilia01/jira2md/internal/render"
	"github.com/Ilia01/jira2md/internal/utils"
)

type jiraService interface {
	FetchIssueXML(string) ([]byte, error)
	SearchWithJQL(string, int) ([]models.JiraTicket, error)
	TestConnection() error
}

var (
	jiraFactory = func(url, email string, auth config.AuthMethod) jiraService {
		return jira.NewClient(url, email, auth)
	}

	openURL = utils.OpenURL

	stdout io.Writer = os.Stdout
)

type exportOptions struct {
	JQL       string
	Limit     int
	OutputDir string
}

func handleInit() error {
	fmt.Println(utils.Cyan(utils.Bold("jira2md Configuration Setup")))
	fmt.Println()
	fmt.Println(utils.Dim("This will store your settings in ~/.jira2md/config.yaml"))
	fmt.Println(utils.Dim("The file will be created with owner-only permissions (600)"))
	fmt.Println(utils.Dim("Jira credentials are only needed for 'fetch' and 'export'"))
	fmt.Println()

	settings, err := config.Load()
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return err
		}
		settings = config.Defaults()
	}

	outputDir, err := utils.PromptWithDefault("Output directory", settings.Output.Dir)
	if err != nil {
		return err
	}
	jiraURL, err := utils.Prompt("Jira URL (leave empty to skip, e.g. https://jira.<company>.com)")
	if err != nil {
		return err
	}
	settings.Output.Dir = strings.TrimSpace(outputDir)

	if jiraURL != "" {
		jiraEmail, err := utils.Prompt("Jira email")
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(utils.Bold("Select authentication method:"))
		fmt.Println(utils.Dim("  1. Personal Access Token (for Jira Data Center/Server)"))
		fmt.Println(utils.Dim("  2. API Token (for Jira Cloud)"))
		authChoice, err := utils.PromptWithDefault("Choice (1/2)", "2")
		if err != nil {
			return err
		}

		authType := config.AuthAPIToken
		if authChoice == "1" {
			authType = config.AuthPersonalAccessToken
		}
		token, err := utils.Prompt("Token")
		if err != nil {
			return err
		}

		settings.Jira = config.JiraConfig{
			URL:        strings.TrimRight(strings.TrimSpace(jiraURL), "/"),
			Email:      strings.TrimSpace(jiraEmail),
			AuthMethod: config.AuthMethod{Type: authType, Token: strings.TrimSpace(token)},
		}
	}

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := settings.Save(); err != nil {
		return err
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(utils.Green(utils.Bold("Configuration saved!")))
	fmt.Printf("  Location: %s\n", utils.BrightWhite(configPath))

	if settings.Jira.URL != "" {
		fmt.Println()
		fmt.Print(utils.Dim("  Testing Jira connection... "))
		client := jiraFactory(settings.Jira.URL, settings.Jira.Email, settings.Jira.AuthMethod)
		if err := client.TestConnection(); err != nil {
			fmt.Println(utils.Red("✗"))
			fmt.Printf("  %s %v\n", utils.Yellow("Warning:"), err)
			fmt.Println(utils.Dim("  This may be expected if VPN/network restrictions apply."))
		} else {
			fmt.Println(utils.Green("✓"))
		}
		fmt.Println(utils.Yellow("Keep your API tokens secure!"))
	}

	return nil
}

func handleConvert(input, outputDir string) error {
	settings, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	converter := convert.New(settings, outputDir, logger)
	result, err := converter.ConvertFile(input)
	if err != nil {
		return err
	}

	printConverted(result)
	return nil
}

func handlePreview(input string, asHTML bool) error {
	settings, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	rec, err := jira.ParseFile(input)
	if err != nil {
		return err
	}
	document, err := convert.New(settings, "", logger).Render(rec)
	if err != nil {
		return err
	}

	if !asHTML {
		_, err = io.WriteString(stdout, document)
		return err
	}

	page, err := render.HTML([]byte(document))
	if err != nil {
		return err
	}
	_, err = stdout.Write(page)
	return err
}

func handleInspect(path string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	meta, body, err := readDocument(path)
	if err != nil {
		return err
	}

	fmt.Println(utils.Cyan(utils.Bold(fmt.Sprintf("%s  %s", meta.StoryID, meta.Title))))
	fmt.Println()
	fmt.Printf("  %s %s\n", utils.Bold("Status:"), colorStatus(meta.Status, settings.Output.Buckets))
	fmt.Printf("  %s %s\n", utils.Bold("Bucket:"), convert.Bucket(meta.Status, settings.Output.Buckets))
	fmt.Printf("  %s %s\n", utils.Bold("Priority:"), meta.Priority)
	fmt.Printf("  %s %s\n", utils.Bold("Assignee:"), meta.Assignee)
	fmt.Printf("  %s %s\n", utils.Bold("Type:"), meta.Type)
	fmt.Printf("  %s %s\n", utils.Bold("Created:"), utils.Dim(meta.Created))
	fmt.Printf("  %s %s\n", utils.Bold("Updated:"), utils.Dim(meta.Updated))
	if len(meta.Labels) > 0 {
		fmt.Printf("  %s %s\n", utils.Bold("Labels:"), strings.Join(meta.Labels, ", "))
	}
	if meta.JiraLink != "" {
		fmt.Printf("  %s %s\n", utils.Bold("Link:"), utils.BrightWhite(meta.JiraLink))
	}

	headings := documentHeadings(body)
	if len(headings) > 0 {
		fmt.Println()
		fmt.Println(utils.Bold("Sections:"))
		for _, heading := range headings {
			fmt.Printf("  %s %s\n", utils.Dim("-"), heading)
		}
	}

	return nil
}

func handleOpen(path string) error {
	meta, _, err := readDocument(path)
	if err != nil {
		return err
	}
	if meta.JiraLink == "" {
		return fmt.Errorf("%s has no jira_link", path)
	}

	fmt.Printf("%s %s\n", utils.Dim("Opening ticket:"), utils.BrightWhite(meta.JiraLink))
	return openURL(meta.JiraLink)
}

func handleFetch(issueKey, outputDir string, saveXML bool) error {
	settings, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	key, err := utils.NormalizeIssueKey(issueKey)
	if err != nil {
		return err
	}
	client, err := newJiraClient(settings)
	if err != nil {
		return err
	}

	fmt.Println(utils.Dim(fmt.Sprintf("  Fetching %s...", key)))
	converter := convert.New(settings, outputDir, logger)
	result, err := fetchAndConvert(client, converter, key, saveXML)
	if err != nil {
		return err
	}

	printConverted(result)
	return nil
}

func handleExport(opts exportOptions) error {
	settings, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	client, err := newJiraClient(settings)
	if err != nil {
		return err
	}

	fmt.Println(utils.Cyan(utils.Bold("Exporting issues")))
	fmt.Println(utils.Dim(fmt.Sprintf("  JQL: %s", opts.JQL)))
	fmt.Println()

	tickets, err := client.SearchWithJQL(opts.JQL, opts.Limit)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		fmt.Println(utils.Dim("  No issues found"))
		return nil
	}

	converter := convert.New(settings, opts.OutputDir, logger)
	failed := 0
	for i, ticket := range tickets {
		prefix := utils.Dim(strconv.Itoa(i+1) + ".")
		result, err := fetchAndConvert(client, converter, ticket.Key, false)
		if err != nil {
			failed++
			logger.Error("export failed", "key", ticket.Key, "error", err)
			fmt.Printf("  %s %s %s %v\n", prefix, utils.Red("✗"), utils.BrightWhite(ticket.Key), err)
			continue
		}
		fmt.Printf("  %s %s %s [%s] %s\n",
			prefix,
			utils.Green("✓"),
			utils.BrightWhite(result.Record.Key),
			colorStatus(result.Record.Status, settings.Output.Buckets),
			utils.Dim(result.Path),
		)
	}

	if len(tickets) == opts.Limit {
		fmt.Println()
		fmt.Println(utils.Dim(fmt.Sprintf("  Stopped at %d issues. Use --limit to export more.", opts.Limit)))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d issues failed to export", failed, len(tickets))
	}
	return nil
}

func fetchAndConvert(client jiraService, converter *convert.Converter, key string, saveXML bool) (*convert.Result, error) {
	data, err := client.FetchIssueXML(key)
	if err != nil {
		return nil, err
	}
	result, err := converter.ConvertBytes(data)
	if err != nil {
		return nil, err
	}
	if saveXML {
		xmlPath := strings.TrimSuffix(result.Path, ".md") + ".xml"
		if err := os.WriteFile(xmlPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("save xml: %w", err)
		}
	}
	return result, nil
}

func handleConfigShow() error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	printConfig(settings)
	return nil
}

func handleConfigSet(key, value string) error {
	settings, err := config.Load()
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return err
		}
		settings = config.Defaults()
	}
	if err := updateConfigValue(settings, key, value); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := settings.Save(); err != nil {
		return err
	}
	if strings.HasSuffix(key, ".token") {
		value = config.MaskToken(value)
	}
	fmt.Println(utils.Green(utils.Bold(fmt.Sprintf("✓ Updated %s to: %s", key, value))))
	return nil
}

func handleConfigValidate() error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	fmt.Println(utils.Cyan(utils.Bold("Validating configuration...")))
	fmt.Println()

	fmt.Print(utils.Dim("  Checking output settings... "))
	if err := settings.Validate(); err != nil {
		fmt.Println(utils.Red("✗"))
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fmt.Println(utils.Green("✓"))

	fmt.Print(utils.Dim("  Checking Jira credentials... "))
	if err := settings.Jira.Validate(); err != nil {
		fmt.Println(utils.Yellow("skipped"))
		fmt.Println(utils.Dim(fmt.Sprintf("  fetch and export unavailable: %v", err)))
		return nil
	}
	fmt.Println(utils.Green("✓"))

	fmt.Print(utils.Dim("  Testing Jira connection... "))
	client := jiraFactory(settings.Jira.URL, settings.Jira.Email, settings.Jira.AuthMethod)
	if err := client.TestConnection(); err != nil {
		fmt.Println(utils.Red("✗"))
		fmt.Println(utils.Yellow(fmt.Sprintf("  Jira validation failed: %v", err)))
	} else {
		fmt.Println(utils.Green("✓"))
	}
	return nil
}

func handleConfigPath() error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// loadSettings resolves configuration. A missing config file is fine since
// every setting has a default or an environment override.
func loadSettings() (*config.Settings, error) {
	return config.Resolve()
}

// loadRuntime resolves settings and builds the command logger. --verbose
// overrides the configured level for this run only.
func loadRuntime() (*config.Settings, logging.Logger, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		settings.Logging.Level = "debug"
	}
	provider, err := logging.New(logging.Config{
		Level:  settings.Logging.Level,
		Format: settings.Logging.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	return settings, provider.GetLogger("jira2md"), nil
}

func newJiraClient(settings *config.Settings) (jiraService, error) {
	if err := settings.Jira.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "jira is not configured. Run 'jira2md init' or set JIRA_URL, JIRA_EMAIL and JIRA_API_TOKEN").
			WithTextCode("JIRA_NOT_CONFIGURED")
	}
	return jiraFactory(settings.Jira.URL, settings.Jira.Email, settings.Jira.AuthMethod), nil
}

func readDocument(path string) (render.Meta, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return render.Meta{}, nil, fmt.Errorf("read document: %w", err)
	}
	return render.ParseDocument(data)
}

func documentHeadings(body []byte) []string {
	var headings []string
	for _, line := range strings.Split(string(body), "\n") {
		if strings.HasPrefix(line, "## ") {
			headings = append(headings, strings.TrimPrefix(line, "## "))
		}
	}
	return headings
}

func printConverted(result *convert.Result) {
	fmt.Println(utils.Green(fmt.Sprintf("✓ Converted %s to %s", result.Record.Key, result.Path)))
}

func printConfig(settings *config.Settings) {
	fmt.Println(utils.Cyan(utils.Bold("Current Configuration")))
	fmt.Println()

	fmt.Println(utils.Bold("[jira]"))
	fmt.Printf("  %s %s\n", utils.Dim("url:"), utils.BrightWhite(settings.Jira.URL))
	fmt.Printf("  %s %s\n", utils.Dim("email:"), utils.BrightWhite(settings.Jira.Email))
	fmt.Printf("  %s %s\n", utils.Dim("auth_method:"), utils.BrightWhite(settings.Jira.AuthMethod.Type))
	fmt.Printf("  %s %s\n", utils.Dim("token:"), utils.Yellow(config.MaskToken(settings.Jira.AuthMethod.Token)))

	fmt.Println()
	fmt.Println(utils.Bold("[output]"))
	fmt.Printf("  %s %s\n", utils.Dim("dir:"), utils.BrightWhite(settings.Output.Dir))
	fmt.Printf("  %s %s\n", utils.Dim("buckets.in_progress:"), utils.BrightWhite(settings.Output.Buckets.InProgress))
	fmt.Printf("  %s %s\n", utils.Dim("buckets.completed:"), utils.BrightWhite(settings.Output.Buckets.Completed))
	fmt.Printf("  %s %s\n", utils.Dim("buckets.backlog:"), utils.BrightWhite(settings.Output.Buckets.Backlog))

	if len(settings.Sections) > 0 {
		fmt.Println()
		fmt.Println(utils.Bold("[sections]"))
		for _, section := range settings.Sections {
			fmt.Printf("  %s %s\n", utils.Dim(section.Heading+":"), utils.BrightWhite(section.Field))
		}
	}

	fmt.Println()
	fmt.Println(utils.Bold("[logging]"))
	fmt.Printf("  %s %s\n", utils.Dim("level:"), utils.BrightWhite(settings.Logging.Level))
	fmt.Printf("  %s %s\n", utils.Dim("format:"), utils.BrightWhite(settings.Logging.Format))
}

func updateConfigValue(settings *config.Settings, key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return errors.New("invalid key format. Use section.field (e.g., output.dir)")
	}

	section, field := parts[0], strings.Join(parts[1:], ".")
	switch section {
	case "jira":
		switch field {
		case "url":
			settings.Jira.URL = strings.TrimRight(value, "/")
		case "email":
			settings.Jira.Email = value
		case "token":
			settings.Jira.AuthMethod.Token = value
		case "auth_method":
			settings.Jira.AuthMethod.Type = value
		default:
			return fmt.Errorf("unknown jira field: %s", field)
		}
	case "output":
		switch field {
		case "dir":
			settings.Output.Dir = value
		case "buckets.in_progress":
			settings.Output.Buckets.InProgress = value
		case "buckets.completed":
			settings.Output.Buckets.Completed = value
		case "buckets.backlog":
			settings.Output.Buckets.Backlog = value
		default:
			return fmt.Errorf("unknown output field: %s", field)
		}
	case "logging":
		switch field {
		case "level":
			settings.Logging.Level = value
		case "format":
			settings.Logging.Format = value
		default:
			return fmt.Errorf("unknown logging field: %s", field)
		}
	default:
		return fmt.Errorf("unknown configuration section: %s", section)
	}

	return nil
}

func colorStatus(status string, buckets config.Buckets) string {
	switch convert.Bucket(status, buckets) {
	case buckets.InProgress:
		return utils.Green(status)
	case buckets.Completed:
		return utils.Dim(status)
	default:
		return utils.Yellow(status)
	}
}
