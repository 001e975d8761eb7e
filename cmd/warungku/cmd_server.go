package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrianfauzi/warungku/app/routes"
	"github.com/andrianfauzi/warungku/internal/server"
	"github.com/andrianfauzi/warungku/pkg/router"
)

// warungku serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// warungku route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}

		r := router.New()
		routes.RegisterAPI(r)

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		sort.Slice(infos, func(i, j int) bool {
			return infos[i].Path < infos[j].Path
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "PATH\tNAME")
		fmt.Fprintln(w, "----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\n", ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
