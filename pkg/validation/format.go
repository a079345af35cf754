package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
)

// oneOf reports an error naming what unless value is exactly one of allowed.
func oneOf(what, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("expected %s of %s, got %s", what, strings.Join(allowed, " or "), value)
}

// ValidateOutputFormat checks a CLI report format.
func ValidateOutputFormat(format string) error {
	return oneOf("output format", format, constants.OutputFormatPretty, constants.OutputFormatCSV)
}

// ValidateDatabaseDriver checks a storage driver name.
func ValidateDatabaseDriver(driver string) error {
	return oneOf("database driver", driver, constants.DriverPostgres, constants.DriverSQLite)
}

// ValidatePlaidEnvironment checks a Plaid environment name.
func ValidatePlaidEnvironment(env string) error {
	return oneOf("plaid environment", env, constants.PlaidEnvironmentSandbox, constants.PlaidEnvironmentProduction)
}
