package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/http/dto"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

type createCommand struct {
	*Meta

	userID   string
	ifAbsent bool
	props    propertyFlags
}

func (c *createCommand) Synopsis() string {
	return "Create a governance zone"
}

func (c *createCommand) Help() string {
	return `Usage: zonectl create -name <qualified-name> [options]

  Creates a governance zone and prints its unique identifier. With
  -if-absent, an existing zone of the same name is reported instead of a
  duplicate-value failure.`
}

func (c *createCommand) Run(args []string) int {
	fs := c.flagSet("create", &c.userID)
	fs.BoolVar(&c.ifAbsent, "if-absent", false, "Succeed when a zone of this name already exists")
	c.props.register(fs)

	if err := fs.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}

	svc, err := c.zoneService()
	if err != nil {
		return c.fail(err)
	}

	ctx := context.Background()
	props := c.props.toDomain()

	if c.ifAbsent {
		guid, created, err := svc.EnsureZone(ctx, c.userID, props)
		if err != nil {
			return c.fail(err)
		}

		return c.output(map[string]any{"guid": guid, "created": created})
	}

	guid, err := svc.Zones().CreateZone(ctx, c.userID, props)
	if err != nil {
		return c.fail(err)
	}

	return c.output(map[string]any{"guid": guid, "created": true})
}

type updateCommand struct {
	*Meta

	userID  string
	replace bool
	props   propertyFlags
}

func (c *updateCommand) Synopsis() string {
	return "Update the properties of a governance zone"
}

func (c *updateCommand) Help() string {
	return `Usage: zonectl update [options] <guid>

  Updates a governance zone. Properties are merged into the stored ones
  unless -replace is given.`
}

func (c *updateCommand) Run(args []string) int {
	fs := c.flagSet("update", &c.userID)
	fs.BoolVar(&c.replace, "replace", false, "Replace every property instead of merging")
	c.props.register(fs)

	if err := fs.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}

	if fs.NArg() != 1 {
		c.UI.Error("update takes exactly one zone identifier")
		return cli.RunResultHelp
	}

	svc, err := c.zoneService()
	if err != nil {
		return c.fail(err)
	}

	guid := fs.Arg(0)

	err = svc.Zones().UpdateZone(context.Background(), c.userID, guid, c.props.toDomain(), !c.replace)
	if err != nil {
		return c.fail(err)
	}

	return c.output(map[string]any{"guid": guid, "merged": !c.replace})
}

type statusCommand struct {
	*Meta

	userID string
}

func (c *statusCommand) Synopsis() string {
	return "Change the status of a governance zone"
}

func (c *statusCommand) Help() string {
	return `Usage: zonectl status [options] <guid> <status>

  Sets the status of a governance zone. Status is one of DRAFT, PROPOSED,
  APPROVED, ACTIVE, DEPRECATED or OTHER.`
}

func (c *statusCommand) Run(args []string) int {
	fs := c.flagSet("status", &c.userID)

	if err := fs.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}

	if fs.NArg() != 2 {
		c.UI.Error("status takes a zone identifier and a status")
		return cli.RunResultHelp
	}

	svc, err := c.zoneService()
	if err != nil {
		return c.fail(err)
	}

	guid := fs.Arg(0)
	status := domain.ParseZoneStatus(strings.ToUpper(fs.Arg(1)))

	if err := svc.Zones().UpdateZoneStatus(context.Background(), c.userID, guid, status); err != nil {
		return c.fail(err)
	}

	return c.output(map[string]any{"guid": guid, "status": status.String()})
}

type deleteCommand struct {
	*Meta

	userID string
}

func (c *deleteCommand) Synopsis() string {
	return "Delete a governance zone"
}

func (c *deleteCommand) Help() string {
	return `Usage: zonectl delete [options] <guid>`
}

func (c *deleteCommand) Run(args []string) int {
	fs := c.flagSet("delete", &c.userID)

	if err := fs.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}

	if fs.NArg() != 1 {
		c.UI.Error("delete takes exactly one zone identifier")
		return cli.RunResultHelp
	}

	svc, err := c.zoneService()
	if err != nil {
		return c.fail(err)
	}

	guid := fs.Arg(0)

	if err := svc.Zones().DeleteZone(context.Background(), c.userID, guid); err != nil {
		return c.fail(err)
	}

	return c.output(map[string]any{"guid": guid, "deleted": true})
}

type getCommand struct {
	*Meta

	userID string
}

func (c *getCommand) Synopsis() string {
	return "Fetch governance zones by identifier"
}

func (c *getCommand) Help() string {
	return `Usage: zonectl get [options] <guid> [<guid>...]

  Fetches one zone, or several concurrently. With several identifiers each
  one is reported with either its zone or its failure, and the exit code is
  that of the most severe failure.`
}

// fetchOutput is one entry of a multi-zone fetch.
type fetchOutput struct {
	GUID    string           `json:"guid"`
	Element *dto.ZoneElement `json:"element,omitempty"`
	Failure *failureOutput   `json:"failure,omitempty"`
}

func (c *getCommand) Run(args []string) int {
	fs := c.flagSet("get", &c.userID)

	if err := fs.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}

	if fs.NArg() == 0 {
		c.UI.Error("get takes at least one zone identifier")
		return cli.RunResultHelp
	}

	svc, err := c.zoneService()
	if err != nil {
		return c.fail(err)
	}

	ctx := context.Background()

	if fs.NArg() == 1 {
		zone, err := svc.Zones().FetchZone(ctx, c.userID, fs.Arg(0))
		if err != nil {
			return c.fail(err)
		}

		return c.output(dto.NewZoneElement(zone))
	}

	results := svc.FetchZones(ctx, c.userID, fs.Args())
	out := make([]fetchOutput, 0, len(results))
	code := exitOK

	for _, r := range results {
		entry := fetchOutput{GUID: r.Key}

		if r.Err != nil {
			if f, ok := domain.AsTypedFailure(r.Err); ok {
				fo := newFailureOutput(f)
				entry.Failure = &fo
			} else {
				entry.Failure = &failureOutput{Kind: domain.KindPropertyServerFailure, Message: r.Err.Error()}
			}

			code = worse(code, exitCode(r.Err))
		} else {
			element := dto.NewZoneElement(r.Value)
			entry.Element = &element
		}

		out = append(out, entry)
	}

	if rc := c.output(out); rc != exitOK {
		return rc
	}

	return code
}

// worse orders exit codes by severity: server failures over caller ones.
func worse(a, b int) int {
	rank := func(code int) int {
		switch code {
		case exitServer:
			return 2
		case exitCaller:
			return 1
		default:
			return 0
		}
	}

	if rank(b) > rank(a) {
		return b
	}

	return a
}

type findCommand struct {
	*Meta

	userID    string
	startFrom int
	pageSize  int
}

func (c *findCommand) Synopsis() string {
	return "Find governance zones by name"
}

func (c *findCommand) Help() string {
	return `Usage: zonectl find [options] <pattern>

  Lists zones whose qualified or display name matches the regular
  expression pattern.`
}

func (c *findCommand) Run(args []string) int {
	fs := c.flagSet("find", &c.userID)
	fs.IntVar(&c.startFrom, "start", 0, "Index of the first result")
	fs.IntVar(&c.pageSize, "page-size", 0, "Maximum number of results; 0 uses the configured default")

	if err := fs.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}

	if fs.NArg() != 1 {
		c.UI.Error("find takes exactly one name pattern")
		return cli.RunResultHelp
	}

	svc, err := c.zoneService()
	if err != nil {
		return c.fail(err)
	}

	zones, err := svc.Zones().FetchZonesByName(context.Background(), c.userID, fs.Arg(0), c.startFrom, c.pageSize)
	if err != nil {
		return c.fail(err)
	}

	return c.output(dto.NewZoneListResponse(zones).Elements)
}

type listCommand struct {
	*Meta

	userID    string
	domain    int
	startFrom int
	pageSize  int
	all       bool
}

func (c *listCommand) Synopsis() string {
	return "List the governance zones of a domain"
}

func (c *listCommand) Help() string {
	return `Usage: zonectl list [options]

  Lists the zones of a governance domain. Domain 0 lists every zone. With
  -all, pages are fetched until the server runs out of zones.`
}

func (c *listCommand) Run(args []string) int {
	fs := c.flagSet("list", &c.userID)
	fs.IntVar(&c.domain, "domain", 0, "Governance domain identifier")
	fs.IntVar(&c.startFrom, "start", 0, "Index of the first result")
	fs.IntVar(&c.pageSize, "page-size", 0, "Maximum number of results per page")
	fs.BoolVar(&c.all, "all", false, "Fetch every page")

	if err := fs.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}

	svc, err := c.zoneService()
	if err != nil {
		return c.fail(err)
	}

	ctx := context.Background()

	var zones []*domain.GovernanceZone
	if c.all {
		zones, err = svc.ListAllZones(ctx, c.userID, c.domain, c.pageSize)
	} else {
		zones, err = svc.Zones().ListZonesForDomain(ctx, c.userID, c.domain, c.startFrom, c.pageSize)
	}

	if err != nil {
		return c.fail(err)
	}

	return c.output(dto.NewZoneListResponse(zones).Elements)
}

type versionCommand struct {
	*Meta
}

func (c *versionCommand) Synopsis() string {
	return "Print the zonectl version"
}

func (c *versionCommand) Help() string {
	return "Usage: zonectl version"
}

func (c *versionCommand) Run(_ []string) int {
	c.UI.Output(fmt.Sprintf("zonectl %s (%s)", Version, Commit))
	return exitOK
}
