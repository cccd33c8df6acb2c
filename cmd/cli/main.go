package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goanchor-cli",
		Short: "GoAnchor CLI tool",
		Long:  `A command line interface for interacting with the GoAnchor balance API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoAnchor API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Account commands
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var (
		createName     string
		createCurrency string
		createSubtype  string
		createLinked   bool
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Run: func(cmd *cobra.Command, args []string) {
			createAccount(createName, createCurrency, createSubtype, createLinked)
		},
	}
	createCmd.Flags().StringVar(&createName, "name", "", "Account name")
	createCmd.Flags().StringVar(&createCurrency, "currency", "USD", "Account currency")
	createCmd.Flags().StringVar(&createSubtype, "subtype", "checking", "Account subtype")
	createCmd.Flags().BoolVar(&createLinked, "linked", false, "Account is linked to an institution")
	createCmd.MarkFlagRequired("name")

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Get an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts")
		},
	}

	entriesCmd := &cobra.Command{
		Use:   "entries <account-id>",
		Short: "List an account's entries",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + args[0] + "/entries")
		},
	}

	accountsCmd.AddCommand(createCmd, getCmd, listCmd, entriesCmd)
	rootCmd.AddCommand(accountsCmd)

	// Balance commands
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance operations",
	}

	showCmd := &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show resolved opening and current balances",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/accounts/" + args[0] + "/balances")
		},
	}

	var openingDate string
	setOpeningCmd := &cobra.Command{
		Use:   "set-opening <account-id> <balance>",
		Short: "Set the opening balance anchor",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{"balance": args[1]}
			if openingDate != "" {
				body["date"] = openingDate
			}
			putJSON("/api/v1/accounts/"+args[0]+"/balances/opening", body)
		},
	}
	setOpeningCmd.Flags().StringVar(&openingDate, "date", "", "Opening date (YYYY-MM-DD, optional)")

	setCurrentCmd := &cobra.Command{
		Use:   "set-current <account-id> <balance>",
		Short: "Record a freshly observed balance",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			putJSON("/api/v1/accounts/"+args[0]+"/balances/current", map[string]any{"balance": args[1]})
		},
	}

	balanceCmd.AddCommand(showCmd, setOpeningCmd, setCurrentCmd)
	rootCmd.AddCommand(balanceCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createAccount(name, currency, subtype string, linked bool) {
	payload, _ := json.Marshal(map[string]any{
		"name":     name,
		"currency": currency,
		"subtype":  subtype,
		"linked":   linked,
	})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/accounts", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func putJSON(path string, body map[string]any) {
	payload, _ := json.Marshal(body)

	req, err := http.NewRequest(http.MethodPut, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	raw, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\n", resp.StatusCode)
		os.Exit(1)
	}
}
