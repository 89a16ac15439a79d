package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"propguard/internal/lint"
	"propguard/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in lint rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		all := rules.Registry().All()
		switch strings.ToLower(format) {
		case "pretty":
			renderRulesPretty(cmd.OutOrStdout(), all)
			return nil
		case "json":
			return renderRulesJSON(cmd.OutOrStdout(), all)
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	},
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type ruleOptionPayload struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Doc  string `json:"doc,omitempty"`
}

type rulePayload struct {
	Name        string              `json:"name"`
	Aliases     []string            `json:"aliases,omitempty"`
	Type        string              `json:"type"`
	Description string              `json:"description"`
	Severity    string              `json:"default_severity"`
	URL         string              `json:"url,omitempty"`
	Codes       []string            `json:"codes"`
	Options     []ruleOptionPayload `json:"options,omitempty"`
}

func describeRule(r lint.Rule) rulePayload {
	meta := r.Meta()
	p := rulePayload{
		Name:        meta.Name,
		Aliases:     meta.Aliases,
		Type:        string(meta.Type),
		Description: meta.Description,
		Severity:    strings.ToLower(meta.DefaultSeverity.String()),
		URL:         meta.URL,
	}
	seen := make(map[string]struct{}, len(meta.Messages))
	for _, msg := range meta.Messages {
		id := msg.Code.ID()
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			p.Codes = append(p.Codes, id)
		}
	}
	sort.Strings(p.Codes)
	for _, o := range meta.Options {
		p.Options = append(p.Options, ruleOptionPayload{Name: o.Name, Type: o.Kind.String(), Doc: o.Doc})
	}
	return p
}

func renderRulesPretty(out io.Writer, all []lint.Rule) {
	name := color.New(color.Bold)
	dim := color.New(color.Faint)
	for i, r := range all {
		p := describeRule(r)
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (%s, default %s)\n", name.Sprint(p.Name), p.Type, p.Severity)
		fmt.Fprintf(out, "  %s\n", p.Description)
		if len(p.Aliases) > 0 {
			fmt.Fprintf(out, "  aliases: %s\n", strings.Join(p.Aliases, ", "))
		}
		fmt.Fprintf(out, "  codes:   %s\n", strings.Join(p.Codes, ", "))
		for _, o := range p.Options {
			fmt.Fprintf(out, "  option %s (%s)", o.Name, o.Type)
			if o.Doc != "" {
				fmt.Fprintf(out, ": %s", o.Doc)
			}
			fmt.Fprintln(out)
		}
		if p.URL != "" {
			fmt.Fprintf(out, "  %s\n", dim.Sprint(p.URL))
		}
	}
}

func renderRulesJSON(out io.Writer, all []lint.Rule) error {
	payload := make([]rulePayload, 0, len(all))
	for _, r := range all {
		payload = append(payload, describeRule(r))
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
