package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"eptweb/internal/pkg/validate"
)

var checkCmd = &cobra.Command{
	Use:       "check <cpf|cnpj|password|email|lattes|url> <value>",
	Short:     "Run a form validator against a value",
	Long:      `Runs the same advisory checks the sign-up form uses. Exits 1 when the value is rejected.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"cpf", "cnpj", "password", "email", "lattes", "url"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if code := runCheck(cmd.OutOrStdout(), args[0], args[1]); code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

// runCheck prints the verdict for value and returns the exit code:
// 0 valid, 1 rejected, 2 unknown validator.
func runCheck(w io.Writer, kind, value string) int {
	var problems []string

	switch kind {
	case "cpf":
		problems = appendProblem(problems, validate.DocumentIdentifier(value, validate.KindCPF))
	case "cnpj":
		problems = appendProblem(problems, validate.DocumentIdentifier(value, validate.KindCNPJ))
	case "password":
		problems = validate.PasswordRules(value)
	case "email":
		problems = appendProblem(problems, validate.Email(value))
	case "lattes":
		problems = appendProblem(problems, validate.Lattes(value))
	case "url":
		problems = appendProblem(problems, validate.BaseURL(value))
	default:
		fmt.Fprintf(w, "Error: unknown validator %q (want cpf, cnpj, password, email, lattes or url)\n", kind)
		return 2
	}

	if len(problems) == 0 {
		fmt.Fprintln(w, "valid")
		return 0
	}

	fmt.Fprintln(w, "invalid:")
	for _, p := range problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	return 1
}

func appendProblem(problems []string, msg string) []string {
	if msg == "" {
		return problems
	}
	return append(problems, msg)
}
