package main

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/nao1215/hitksoup/internal/config"
	"github.com/nao1215/hitksoup/internal/model"
	"github.com/spf13/cobra"
)

//go:embed templates/profile.yaml
var profileTemplate embed.FS

// defaultPortalURL is written when --url is not given.
const defaultPortalURL = "https://results.example.edu/result.aspx"

// profileTemplateData fills templates/profile.yaml.
type profileTemplateData struct {
	Key    string
	Year   string
	Parity string
	URL    string
	Even   bool
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an extraction profile for a semester",
		Long: `Init writes a commented extraction profile for the given semester and year
into the profile directory, named {year}_{ODD|EVEN}.yaml.

The generated file includes:
- The form control names and result field ids of a typical portal
- The even-semester fields when the semester is even
- Commented examples for the missing-student marker and field labels

Examples:
  # Create configs/2019_ODD.yaml
  hitksoup init -s 5 -y 2019 -p configs

  # Point the profile at a portal and overwrite an existing file
  hitksoup init -s 6 -y 2019 --url https://results.example.edu/result.aspx -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("semester", "s", "", "Semester number, 1 to 8 (required)")
	cmd.Flags().StringP("year", "y", "", "Year the semester was attended (required)")
	cmd.Flags().StringP("profiles", "p", config.DefaultProfileDir, "Profile directory to write to")
	cmd.Flags().String("url", defaultPortalURL, "Result form page URL")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing profile")
	_ = cmd.MarkFlagRequired("semester") //nolint:errcheck // flag defined above
	_ = cmd.MarkFlagRequired("year")     //nolint:errcheck // flag defined above

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	semester, err := flags.GetString("semester")
	if err != nil {
		return err
	}
	year, err := flags.GetString("year")
	if err != nil {
		return err
	}
	dir, err := flags.GetString("profiles")
	if err != nil {
		return err
	}
	portalURL, err := flags.GetString("url")
	if err != nil {
		return err
	}
	force, err := flags.GetBool("force")
	if err != nil {
		return err
	}

	sem, err := model.ParseSemester(semester, year)
	if err != nil {
		return fmt.Errorf("%w: %w", errConfiguration, err)
	}

	outputPath := filepath.Join(dir, sem.Key()+".yaml")

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("profile already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := renderProfile(profileTemplateData{
		Key:    sem.Key(),
		Year:   sem.Year,
		Parity: sem.Parity().String(),
		URL:    portalURL,
		Even:   sem.Parity() == model.ParityEven,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created profile: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to match the portal page:")
	fmt.Fprintln(out, "  - The result form URL")
	fmt.Fprintln(out, "  - The name attributes of the roll box, semester list and submit button")
	fmt.Fprintln(out, "  - The id attributes of the result fields")

	return nil
}

// renderProfile executes the embedded profile template.
func renderProfile(data profileTemplateData) ([]byte, error) {
	raw, err := profileTemplate.ReadFile("templates/profile.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read profile template: %w", err)
	}

	tmpl, err := template.New("profile").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render profile template: %w", err)
	}
	return buf.Bytes(), nil
}
