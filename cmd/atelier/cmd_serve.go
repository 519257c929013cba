package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ibrahimdesign/atelier/app/controllers"
	"github.com/ibrahimdesign/atelier/app/routes"
	"github.com/ibrahimdesign/atelier/internal/server"
	"github.com/ibrahimdesign/atelier/pkg/router"
)

// atelier serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// atelier route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := router.New()

		// Zero-value controllers are enough to enumerate routes; no
		// handler ever runs.
		routes.RegisterAPI(r, routes.Controllers{
			Catalog:  &controllers.CatalogController{},
			Manage:   &controllers.ManageController{},
			Bookings: &controllers.BookingController{},
			Account:  &controllers.AccountController{},
			Webhooks: &controllers.WebhookController{},
		})

		infos := r.Routes()
		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
