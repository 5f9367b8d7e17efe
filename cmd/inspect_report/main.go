package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/charleschow/tt-momentum/internal/config"

	_ "modernc.org/sqlite"
)

var runsCompact = `SELECT id, started, COALESCE(title,'') AS title,
	COALESCE(player_one,'')||' v '||COALESCE(player_two,'') AS players,
	model, seed, trials,
	COALESCE(sets_one,'-')||':'||COALESCE(sets_two,'-') AS sets,
	COALESCE(points,0) AS points, finished
FROM runs ORDER BY started DESC LIMIT ?`

var pointsCompact = `SELECT idx AS n, set_no AS "set", score_one||':'||score_two AS score,
	printf('%.4f', leverage) AS l_i,
	printf('%.4f', g_one) AS g_a, printf('%.4f', g_two) AS g_b,
	printf('%.4f', m_one) AS m_a, printf('%.4f', m_two) AS m_b,
	printf('%.3f', p_one) AS elo_a, printf('%.3f', p_two) AS elo_b,
	printf('%.1f', win_prob*100) AS win_a,
	printf('%.1f', exp_points) AS exp_pts
FROM points WHERE run_id = ? ORDER BY idx DESC LIMIT ?`

func main() {
	cfg := config.Load()
	dbPath := cfg.ReportDBPath
	if dbPath == "" {
		dbPath = "data/reports.db"
	}

	path := flag.String("db", dbPath, "report database")
	n := flag.Int("n", 10, "number of recent rows to display")
	run := flag.String("run", "", "show the points of this run id (\"latest\" for the newest run)")
	verbose := flag.Bool("v", false, "show all columns (raw schema)")
	flag.Parse()

	db, err := sql.Open("sqlite", *path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open %s: %v\n", *path, err)
		os.Exit(1)
	}
	defer db.Close()

	if *run == "" {
		printRuns(db, *n, *verbose)
		return
	}

	id := *run
	if id == "latest" {
		if err := db.QueryRow(`SELECT id FROM runs ORDER BY started DESC LIMIT 1`).Scan(&id); err != nil {
			fmt.Fprintf(os.Stderr, "no runs in %s: %v\n", *path, err)
			os.Exit(1)
		}
	}
	printPoints(db, id, *n, *verbose)
}

func printRuns(db *sql.DB, n int, verbose bool) {
	fmt.Println("=== Runs ===")

	count := 0
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		fmt.Printf("  (cannot count rows: %v)\n", err)
		return
	}
	if count == 0 {
		fmt.Println("(no data)")
		return
	}

	var newest string
	if err := db.QueryRow(`SELECT MAX(started) FROM runs`).Scan(&newest); err == nil {
		if ts, err := time.Parse(time.RFC3339Nano, newest); err == nil {
			fmt.Printf("Newest run %s\n", humanize.Time(ts))
		}
	}
	fmt.Printf("Rows: %s  |  Showing last %d:\n", humanize.Comma(int64(count)), min(n, count))

	if verbose {
		printSchema(db, "runs")
		printQuery(db, `SELECT * FROM runs ORDER BY started DESC LIMIT ?`, n)
		return
	}
	printQuery(db, runsCompact, n)
}

func printPoints(db *sql.DB, runID string, n int, verbose bool) {
	fmt.Printf("=== Run %s ===\n", runID)

	count := 0
	if err := db.QueryRow(`SELECT COUNT(*) FROM points WHERE run_id = ?`, runID).Scan(&count); err != nil {
		fmt.Printf("  (cannot count rows: %v)\n", err)
		return
	}
	if count == 0 {
		fmt.Println("(no data)")
		return
	}

	fmt.Printf("Rows: %s  |  Showing last %d:\n", humanize.Comma(int64(count)), min(n, count))
	if verbose {
		printSchema(db, "points")
		printQuery(db, `SELECT * FROM points WHERE run_id = ? ORDER BY idx DESC LIMIT ?`, runID, n)
		return
	}
	printQuery(db, pointsCompact, runID, n)
}

func printSchema(db *sql.DB, table string) {
	cols, err := schemaColumns(db, table)
	if err != nil {
		fmt.Printf("  (cannot read schema: %v)\n", err)
		return
	}
	fmt.Printf("Schema: %s\n\n", strings.Join(cols, ", "))
}

// printQuery prints the newest-first query result oldest-first.
func printQuery(db *sql.DB, query string, args ...any) {
	rows, err := db.Query(query, args...)
	if err != nil {
		fmt.Printf("  (query error: %v)\n", err)
		return
	}
	defer rows.Close()

	colNames, _ := rows.Columns()
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(colNames, "\t"))
	fmt.Fprintln(w, strings.Repeat("----\t", len(colNames)))

	vals := make([]any, len(colNames))
	ptrs := make([]any, len(colNames))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	var rowBuf [][]string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			fmt.Fprintf(os.Stderr, "  scan error: %v\n", err)
			continue
		}
		cells := make([]string, len(colNames))
		for i, v := range vals {
			cells[i] = fmtCell(v)
		}
		rowBuf = append(rowBuf, cells)
	}

	for i := len(rowBuf) - 1; i >= 0; i-- {
		fmt.Fprintln(w, strings.Join(rowBuf[i], "\t"))
	}
	w.Flush()
}

func schemaColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dflt any
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, fmt.Sprintf("%s %s", name, ctype))
	}
	return cols, nil
}

func fmtCell(v any) string {
	if v == nil {
		return "-"
	}
	switch x := v.(type) {
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%.5f", x)
	case int64:
		return fmt.Sprintf("%d", x)
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", v)
	}
}
