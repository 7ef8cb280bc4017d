package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stationops/backend-go/internal/config"
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/permission"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

func permissionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "permissions",
		Usage: "Print the role to permission table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Usage: "Only show this role (unknown roles resolve to attendant)"},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table"},
		},
		Action: func(c *cli.Context) error {
			roles := domain.Roles()
			if role := strings.TrimSpace(c.String("role")); role != "" {
				roles = []domain.Role{permission.EffectiveRole(domain.Role(role))}
			}
			if c.Bool("json") {
				table := make(map[domain.Role]domain.RolePermissions, len(roles))
				for _, r := range roles {
					table[r] = permission.Resolve(r)
				}
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			}
			return writePermissionTable(c.App.Writer, roles)
		},
	}
}

func writePermissionTable(w io.Writer, roles []domain.Role) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tSCOPE\tVIEW\tCREATE\tEDIT\tDELETE\tAPPROVE\tSTATIONS\tUSERS\tAPPROVAL LIMIT\tMAX AMOUNT")
	for _, r := range roles {
		p := permission.Resolve(r)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r, p.ViewScope, yesNo(p.CanView), yesNo(p.CanCreate), yesNo(p.CanEdit), yesNo(p.CanDelete),
			yesNo(p.CanApprove), yesNo(p.CanManageStations), yesNo(p.CanManageUsers),
			limit(p.ApprovalLimit), limit(p.MaxAmount))
	}
	return tw.Flush()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func limit(v *decimal.Decimal) string {
	if v == nil {
		return "-"
	}
	return v.StringFixed(2)
}

func tokenCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue a bearer token for local testing",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Required: true, Usage: "User id (token subject)"},
			&cli.StringFlag{Name: "role", Required: true},
			&cli.StringFlag{Name: "omc"},
			&cli.StringFlag{Name: "dealer"},
			&cli.StringFlag{Name: "station"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			auth, err := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
			if err != nil {
				return err
			}
			token, err := auth.Issue(domain.UserContext{
				ID:        c.String("user"),
				Role:      domain.Role(c.String("role")),
				OMCID:     c.String("omc"),
				DealerID:  c.String("dealer"),
				StationID: c.String("station"),
			}, c.Duration("ttl"), time.Now())
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			_, err = fmt.Fprintln(c.App.Writer, token)
			return err
		},
	}
}
