package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/clients"
	"github.com/jsamuelsen/metadata-access-client/internal/adapters/clients/acl"
	"github.com/jsamuelsen/metadata-access-client/internal/app"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
	"github.com/jsamuelsen/metadata-access-client/internal/platform/config"
)

// Exit codes.
const (
	exitOK = 0

	// exitServer reports a property server failure or a local error.
	exitServer = 1

	// exitCaller reports a failure the caller can fix by changing the request.
	exitCaller = 2
)

// Meta holds what every command shares.
type Meta struct {
	UI     cli.Ui
	Config *config.Config
	Logger *slog.Logger
}

// flagSet creates a flag set whose usage goes to the UI. The -user flag is
// common to every zone command.
func (m *Meta) flagSet(name string, userID *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	if userID != nil {
		fs.StringVar(userID, "user", m.Config.Metadata.UserID,
			"[APP_METADATA__USER_ID] User the calls are issued for")
	}

	return fs
}

// zoneService builds the zone client from the metadata configuration.
func (m *Meta) zoneService() (*app.ZoneService, error) {
	md := m.Config.Metadata

	clientCfg := &clients.Config{
		BaseURL:     md.PlatformURL,
		ServiceName: md.ServerName,
		Timeout:     m.Config.Client.Timeout,
		Transport:   m.Config.Client.Transport,
		Logger:      m.Logger,
	}

	var creds *acl.Credentials
	if md.UserID != "" {
		creds = &acl.Credentials{UserID: md.UserID, Password: md.Password}
		clientCfg.AuthFunc = clients.BasicAuth(md.UserID, md.Password)
	}

	transport, err := clients.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating transport: %w", err)
	}

	zones, err := acl.NewZoneClient(acl.ZoneClientConfig{
		Client:          transport,
		PlatformURL:     md.PlatformURL,
		ServerName:      md.ServerName,
		Credentials:     creds,
		DefaultPageSize: md.DefaultPageSize,
		MaxPageSize:     md.MaxPageSize,
		Logger:          m.Logger,
	})
	if err != nil {
		return nil, err
	}

	return app.NewZoneService(app.ZoneServiceConfig{Zones: zones, Logger: m.Logger}), nil
}

// output writes v as indented JSON.
func (m *Meta) output(v any) int {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		m.UI.Error(fmt.Sprintf("error encoding output: %v", err))
		return exitServer
	}

	m.UI.Output(string(b))

	return exitOK
}

// failureOutput is the printed form of a typed failure.
type failureOutput struct {
	Kind         domain.FailureKind   `json:"kind"`
	Code         domain.ErrorCode     `json:"code,omitempty"`
	Operation    string               `json:"operation,omitempty"`
	StatusCode   int                  `json:"statusCode"`
	Message      string               `json:"message"`
	SystemAction string               `json:"systemAction,omitempty"`
	UserAction   string               `json:"userAction,omitempty"`
	Parameter    string               `json:"parameter,omitempty"`
	Identifier   string               `json:"identifier,omitempty"`
	Duplicates   []stubOutput         `json:"duplicates,omitempty"`
}

type stubOutput struct {
	GUID       string `json:"guid"`
	TypeName   string `json:"typeName,omitempty"`
	UniqueName string `json:"uniqueName,omitempty"`
}

func newFailureOutput(f domain.TypedFailure) failureOutput {
	info := f.Info()

	out := failureOutput{
		Kind:         f.Kind(),
		Code:         info.Code,
		Operation:    info.Operation,
		StatusCode:   info.StatusCode,
		Message:      info.Message,
		SystemAction: info.SystemAction,
		UserAction:   info.UserAction,
	}

	switch v := f.(type) {
	case *domain.InvalidParameterError:
		out.Parameter = v.ParameterName
	case *domain.UnrecognizedIdentifierError:
		out.Identifier = v.Identifier
	case *domain.DuplicateValueError:
		for _, d := range v.Duplicates {
			out.Duplicates = append(out.Duplicates, stubOutput(d))
		}
	}

	return out
}

// exitCode maps an error onto the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	if f, ok := domain.AsTypedFailure(err); ok && f.Kind() != domain.KindPropertyServerFailure {
		return exitCaller
	}

	return exitServer
}

// fail prints err and returns its exit code.
func (m *Meta) fail(err error) int {
	f, ok := domain.AsTypedFailure(err)
	if !ok {
		m.UI.Error(fmt.Sprintf("error: %v", err))
		return exitServer
	}

	b, merr := json.MarshalIndent(newFailureOutput(f), "", "  ")
	if merr != nil {
		m.UI.Error(f.Error())
	} else {
		m.UI.Error(string(b))
	}

	return exitCode(err)
}

// propertyFlags collects zone properties from the command line.
type propertyFlags struct {
	qualifiedName string
	displayName   string
	description   string
	criteria      string
	scope         string
	domain        int
	additional    keyValueFlag
}

func (p *propertyFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.qualifiedName, "name", "", "Unique qualified name of the zone")
	fs.StringVar(&p.displayName, "display-name", "", "Display name")
	fs.StringVar(&p.description, "description", "", "Description")
	fs.StringVar(&p.criteria, "criteria", "", "Criteria for membership of the zone")
	fs.StringVar(&p.scope, "scope", "", "Scope of the zone")
	fs.IntVar(&p.domain, "domain", 0, "Governance domain identifier")
	fs.Var(&p.additional, "property", "Additional property as key=value; may be repeated")
}

func (p *propertyFlags) toDomain() *domain.ZoneProperties {
	props := &domain.ZoneProperties{
		QualifiedName:    p.qualifiedName,
		DisplayName:      p.displayName,
		Description:      p.description,
		Criteria:         p.criteria,
		Scope:            p.scope,
		DomainIdentifier: p.domain,
	}

	if len(p.additional) > 0 {
		props.AdditionalProperties = map[string]string(p.additional)
	}

	return props
}

// keyValueFlag is a repeatable key=value flag.
type keyValueFlag map[string]string

func (f *keyValueFlag) String() string {
	if f == nil || len(*f) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(*f))
	for k, v := range *f {
		pairs = append(pairs, k+"="+v)
	}

	sort.Strings(pairs)

	return strings.Join(pairs, ",")
}

func (f *keyValueFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}

	if *f == nil {
		*f = make(keyValueFlag)
	}

	(*f)[key] = value

	return nil
}
