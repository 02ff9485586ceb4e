// fileconvctl es el CLI admin del servicio: opera contra el API HTTP.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	APIKey    string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("FILECONV_URL", "http://localhost:5000")
		apiKey  = envOr("FILECONV_KEY", "")
		out     = envOr("FILECONV_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "fileconvctl",
		Short: "CLI admin para el servicio de conversión (health, formats, keys)",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env FILECONV_URL)")
	root.PersistentFlags().StringVar(&apiKey, "api-key", apiKey, "API key a presentar (env FILECONV_KEY)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	// Los flags se resuelven recién en PersistentPreRun
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cl.BaseURL, cl.APIKey, cl.OutFormat = baseURL, apiKey, out
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Ping a /api/health",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/health", nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("health check failed: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	formatsCmd := &cobra.Command{
		Use:   "formats",
		Short: "Listar formatos soportados",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/formats", nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			if status/100 != 2 {
				return fmt.Errorf("status=%d", status)
			}
			return nil
		},
	}

	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Administración de consumer keys (requiere master key)",
	}

	var keyName string
	keysCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crear una consumer key nueva",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cl.APIKey == "" {
				return fmt.Errorf("falta la master key (flag --api-key o env FILECONV_KEY)")
			}
			var body []byte
			if keyName != "" {
				body, _ = json.Marshal(map[string]string{"name": keyName})
			}
			status, respBody, err := cl.do("POST", "/api/keys", body)
			if err != nil {
				return err
			}
			cl.print(status, respBody)
			if status != http.StatusCreated {
				return fmt.Errorf("status=%d", status)
			}
			return nil
		},
	}
	keysCreateCmd.Flags().StringVar(&keyName, "name", "", "Nombre (label) de la key")

	keysListCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar consumer keys (sin valores de key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cl.APIKey == "" {
				return fmt.Errorf("falta la master key (flag --api-key o env FILECONV_KEY)")
			}
			status, body, err := cl.do("GET", "/api/keys", nil)
			if err != nil {
				return err
			}
			cl.print(status, body)
			if status/100 != 2 {
				return fmt.Errorf("status=%d", status)
			}
			return nil
		},
	}

	keysCmd.AddCommand(keysCreateCmd, keysListCmd)
	root.AddCommand(healthCmd, formatsCmd, keysCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
