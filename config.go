package pgxadapt

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jackc/pgservicefile"
	"github.com/jackc/pgxadapt/pgtype"
)

// ConnConfig contains the settings of a Conn that affect type adaptation.
type ConnConfig struct {
	// ClientEncoding is the PostgreSQL name of the encoding text values are exchanged in. It must be one of the
	// encodings pgtype.LookupClientEncoding supports.
	ClientEncoding string

	// RuntimeParams holds the remaining run-time parameters found in the connection string, environment, and service
	// file. Connection establishment keywords such as host and password are not included.
	RuntimeParams map[string]string

	// Tracer receives resolution events from every Transformer bound to the connection.
	Tracer ResolveTracer

	// RowFactory is the default row factory of cursors created from the connection. nil means TupleRow.
	RowFactory RowFactory
}

// Copy returns a deep copy of the config.
func (cc *ConnConfig) Copy() *ConnConfig {
	newConfig := new(ConnConfig)
	*newConfig = *cc
	if cc.RuntimeParams != nil {
		newConfig.RuntimeParams = make(map[string]string, len(cc.RuntimeParams))
		for k, v := range cc.RuntimeParams {
			newConfig.RuntimeParams[k] = v
		}
	}
	return newConfig
}

// ParseConfigError is returned when a connection string cannot be turned into a ConnConfig.
type ParseConfigError struct {
	ConnString string
	msg        string
	err        error
}

func (e *ParseConfigError) Error() string {
	connString := redactPW(e.ConnString)
	if e.err == nil {
		return fmt.Sprintf("cannot parse `%s`: %s", connString, e.msg)
	}
	return fmt.Sprintf("cannot parse `%s`: %s (%s)", connString, e.msg, e.err.Error())
}

func (e *ParseConfigError) Unwrap() error {
	return e.err
}

var notRuntimeParams = map[string]struct{}{
	"host":            {},
	"port":            {},
	"database":        {},
	"dbname":          {},
	"user":            {},
	"password":        {},
	"passfile":        {},
	"connect_timeout": {},
	"sslmode":         {},
	"sslkey":          {},
	"sslcert":         {},
	"sslrootcert":     {},
	"service":         {},
	"servicefile":     {},
	"client_encoding": {},
}

// ParseConfig builds a ConnConfig from connString. connString may be a URL (postgres://...) or a keyword/value DSN
// (client_encoding=LATIN1 application_name=report). An empty string yields the defaults.
//
// Settings are layered from lowest to highest precedence: defaults, environment variables (PGCLIENTENCODING,
// PGAPPNAME, PGSERVICE, PGSERVICEFILE), the named service from the service file, and connString itself.
func ParseConfig(connString string) (*ConnConfig, error) {
	settings := defaultSettings()
	addEnvSettings(settings)

	connStringSettings := make(map[string]string)
	if connString != "" {
		var err error
		if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
			err = addURLSettings(connStringSettings, connString)
		} else {
			err = addDSNSettings(connStringSettings, connString)
		}
		if err != nil {
			return nil, &ParseConfigError{ConnString: connString, msg: "failed to parse as connection string", err: err}
		}
	}

	for _, k := range []string{"service", "servicefile"} {
		if v, ok := connStringSettings[k]; ok {
			settings[k] = v
		}
	}

	if service, present := settings["service"]; present {
		serviceSettings, err := parseServiceSettings(settings["servicefile"], service)
		if err != nil {
			return nil, &ParseConfigError{ConnString: connString, msg: "failed to read service", err: err}
		}
		mergeSettings(settings, serviceSettings)
	}
	mergeSettings(settings, connStringSettings)

	config := &ConnConfig{
		ClientEncoding: settings["client_encoding"],
		RuntimeParams:  make(map[string]string),
	}

	if _, err := pgtype.LookupClientEncoding(config.ClientEncoding); err != nil {
		return nil, &ParseConfigError{ConnString: connString, msg: "invalid client_encoding", err: err}
	}

	for k, v := range settings {
		if _, present := notRuntimeParams[k]; present {
			continue
		}
		config.RuntimeParams[k] = v
	}

	return config, nil
}

func defaultSettings() map[string]string {
	settings := make(map[string]string)
	settings["client_encoding"] = "UTF8"

	if home, err := os.UserHomeDir(); err == nil {
		settings["servicefile"] = filepath.Join(home, ".pg_service.conf")
	}

	return settings
}

func addEnvSettings(settings map[string]string) {
	nameMap := map[string]string{
		"PGCLIENTENCODING": "client_encoding",
		"PGAPPNAME":        "application_name",
		"PGSERVICE":        "service",
		"PGSERVICEFILE":    "servicefile",
	}

	for envname, realname := range nameMap {
		value := os.Getenv(envname)
		if value != "" {
			settings[realname] = value
		}
	}
}

func mergeSettings(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func addURLSettings(settings map[string]string, connString string) error {
	url, err := url.Parse(connString)
	if err != nil {
		return err
	}

	if url.User != nil {
		settings["user"] = url.User.Username()
		if password, present := url.User.Password(); present {
			settings["password"] = password
		}
	}

	if url.Host != "" {
		settings["host"] = url.Host
	}

	database := strings.TrimLeft(url.Path, "/")
	if database != "" {
		settings["database"] = database
	}

	for k, v := range url.Query() {
		settings[k] = v[0]
	}

	return nil
}

var dsnRegexp = regexp.MustCompile(`([a-zA-Z_]+)\s*=\s*((?:'[^']*')|(?:[^ ]+))`)

func addDSNSettings(settings map[string]string, s string) error {
	m := dsnRegexp.FindAllStringSubmatch(s, -1)
	if len(m) == 0 && strings.TrimSpace(s) != "" {
		return errors.New("no keyword=value pairs found")
	}

	for _, b := range m {
		key, value := b[1], b[2]
		if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
			value = value[1 : len(value)-1]
		}
		if key == "dbname" {
			key = "database"
		}
		settings[key] = value
	}

	return nil
}

func parseServiceSettings(servicefilePath, serviceName string) (map[string]string, error) {
	servicefile, err := pgservicefile.ReadServicefile(servicefilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read service file: %v", servicefilePath)
	}

	service, err := servicefile.GetService(serviceName)
	if err != nil {
		return nil, fmt.Errorf("unable to find service: %v", serviceName)
	}

	nameMap := map[string]string{
		"dbname": "database",
	}

	settings := make(map[string]string, len(service.Settings))
	for k, v := range service.Settings {
		if k2, present := nameMap[k]; present {
			k = k2
		}
		settings[k] = v
	}

	return settings, nil
}

// redactPW replaces the password in a URL connection string so it can be shown in an error message.
func redactPW(connString string) string {
	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		if u, err := url.Parse(connString); err == nil {
			return redactURL(u)
		}
	}
	quotedDSN := regexp.MustCompile(`password='[^']*'`)
	connString = quotedDSN.ReplaceAllLiteralString(connString, "password=xxxxx")
	plainDSN := regexp.MustCompile(`password=[^ ]*`)
	connString = plainDSN.ReplaceAllLiteralString(connString, "password=xxxxx")
	return connString
}

func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if _, pwSet := u.User.Password(); pwSet {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
