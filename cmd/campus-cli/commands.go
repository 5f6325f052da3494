package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/davidahmann/campusguard/internal/api"
	"github.com/davidahmann/campusguard/internal/campus"
	"github.com/davidahmann/campusguard/internal/coordinator"
	"github.com/davidahmann/campusguard/pkg/types"
)

func newConfigCmd(stdout io.Writer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect campus configuration documents",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "lint <path>",
		Short: "Load and validate a campus config",
		Long: "Loads a campus config (JSON or YAML), checks that every required\n" +
			"section is present and well-formed, and prints its content hash.",
		Args: exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := campus.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "ok campus=%s config_hash=%s\n", store.CampusName(), store.Hash())
			return nil
		},
	})
	return configCmd
}

func newEvaluateCmd(stdout io.Writer, logger func() (*slog.Logger, error)) *cobra.Command {
	var (
		configPath  string
		description string
		location    string
		source      string
		anonymous   bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:     "evaluate",
		Short:   "Run one report through the pipeline locally",
		Args:    exactArgs(0),
		PreRunE: requiredFlags,
		RunE: func(_ *cobra.Command, _ []string) error {
			log, err := logger()
			if err != nil {
				return err
			}
			coord, err := coordinator.New(configPath, coordinator.WithLogger(log))
			if err != nil {
				return err
			}
			result, err := coord.Process(types.Report{
				Source:      source,
				Description: description,
				Location:    location,
				Anonymous:   anonymous,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintf(stdout, "incident_id=%s type=%q risk=%s score=%d confidence=%s decision=%q\n",
				result.Incident.IncidentID,
				result.Incident.IncidentType,
				result.Risk.Level,
				result.Risk.Score,
				result.Audit.ConfidenceLevel,
				result.Audit.FinalDecision,
			)
			fmt.Fprintf(stdout, "escalation=%s\n", formatChain(result.Audit.EscalationChain))
			fmt.Fprintln(stdout, result.Audit.Explanation)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", envOrDefault("CAMPUS_CONFIG_PATH", coordinator.DefaultConfigPath), "path to campus config")
	cmd.Flags().StringVar(&description, "description", "", "free-text incident description")
	cmd.Flags().StringVar(&location, "location", "", "where the incident happened")
	cmd.Flags().StringVar(&source, "source", "", "reporter role, e.g. Student or Security")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "request an anonymous report")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full decision as JSON")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newReportCmd(stdout io.Writer) *cobra.Command {
	var (
		addr         string
		incidentType string
		description  string
		location     string
		role         string
		emergency    bool
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Submit a report to a running gateway",
		Args:    exactArgs(0),
		PreRunE: requiredFlags,
		RunE: func(_ *cobra.Command, _ []string) error {
			payload, err := json.Marshal(api.ReportRequest{
				IncidentType: &incidentType,
				Description:  &description,
				Location:     &location,
				UserRole:     &role,
				Panic:        &emergency,
			})
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: 10 * time.Second}
			body, status, err := httpPost(client, strings.TrimRight(addr, "/")+"/api/report-incident", payload)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("report failed: %s", strings.TrimSpace(string(body)))
			}

			if jsonOut {
				_, err := stdout.Write(body)
				return err
			}

			var resp api.ReportResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}
			fmt.Fprintf(stdout, "incident_id=%s campus=%q risk=%s confidence=%s decision=%q\n",
				resp.IncidentID, resp.Campus, resp.RiskLevel, resp.Confidence, resp.Decision)
			fmt.Fprintf(stdout, "escalation=%s\n", formatChain(resp.EscalationChain))
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOrDefault("CAMPUS_ADDR", defaultAddr), "gateway address")
	cmd.Flags().StringVar(&incidentType, "type", "", "incident type selected by the reporter")
	cmd.Flags().StringVar(&description, "description", "", "free-text incident description")
	cmd.Flags().StringVar(&location, "location", "", "where the incident happened")
	cmd.Flags().StringVar(&role, "role", "", "reporter role")
	cmd.Flags().BoolVar(&emergency, "panic", false, "mark the report as an emergency")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the raw gateway response")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func httpPost(client *http.Client, url string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func formatChain(chain []string) string {
	if len(chain) == 0 {
		return "none"
	}
	return strings.Join(chain, " > ")
}
