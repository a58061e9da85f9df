package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"crmdash/internal/sheet"
	"crmdash/internal/table"
)

func main() {
	var (
		count       int
		outPath     string
		toStdout    bool
		follow      bool
		rate        float64
		durationStr string
		seed        int64
	)

	pflag.IntVarP(&count, "count", "n", 50, "Leads written up front")
	pflag.StringVarP(&outPath, "out", "o", "simulateddata/leads.csv", "Output CSV path")
	pflag.BoolVar(&toStdout, "stdout", false, "Write to stdout instead of a file")
	pflag.BoolVar(&follow, "follow", false, "Keep appending leads at --rate (for crmdash --follow)")
	pflag.Float64Var(&rate, "rate", 1.0, "Leads per second in --follow mode")
	pflag.StringVar(&durationStr, "duration", "", "Optional run duration in --follow mode (e.g., 30s, 2m). Empty means run until interrupted")
	pflag.Int64Var(&seed, "seed", 0, "Random seed (0 = time based)")
	pflag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := newGenerator(seed)

	if toStdout {
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		if err := sheet.WriteCSV(w, gen.leads(count), sheet.ApplicantColumns); err != nil {
			fmt.Fprintf(os.Stderr, "write: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		os.Exit(1)
	}
	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := sheet.WriteCSV(f, gen.leads(count), sheet.ApplicantColumns); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "wrote %d leads -> %s\n", count, outPath)
	if !follow {
		return
	}

	// Setup interrupt handling
	var interrupted atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		interrupted.Store(true)
	}()

	var deadline time.Time
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		deadline = time.Now().Add(d)
	}
	if rate <= 0 {
		rate = 1
	}
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fmt.Fprintf(os.Stderr, "appending leads -> %s at %.2f/s\n", outPath, rate)
	appended := 0
	for range ticker.C {
		if interrupted.Load() || (!deadline.IsZero() && time.Now().After(deadline)) {
			break
		}
		if err := sheet.AppendCSV(f, gen.leads(1), sheet.ApplicantColumns); err != nil {
			fmt.Fprintf(os.Stderr, "append: %v\n", err)
			os.Exit(1)
		}
		appended++
	}
	fmt.Fprintf(os.Stderr, "appended %d leads\n", appended)
}

type generator struct {
	r *rand.Rand
	n int
}

func newGenerator(seed int64) *generator {
	return &generator{r: rand.New(rand.NewSource(seed))}
}

var (
	firstNames = []string{"Aarav", "Diya", "Ishaan", "Kavya", "Rohan", "Sneha", "Vikram", "Ananya", "Arjun", "Meera"}
	lastNames  = []string{"Sharma", "Patel", "Iyer", "Reddy", "Khan", "Das", "Nair", "Gupta", "Singh", "Mehta"}
	locations  = []string{"Pune", "Bengaluru", "Mumbai", "Hyderabad", "Chennai", "Delhi", ""}
	shifts     = []string{"Day", "Night", "Rotational", "Flexible", ""}
	domains    = []string{"Software", "Data", "Sales", "Marketing", "Finance", "Operations"}
	sources    = []string{"Referral", "LinkedIn", "Job Portal", "Walk-in", "Campus", ""}
	levels     = []string{"Fresher", "Junior", "Mid", "Senior"}
	quals      = []string{"B.Tech", "B.Sc", "BCA", "MBA", "M.Tech", "B.Com"}
	skills     = []string{"Go", "SQL", "Excel", "Python", "Communication", "Negotiation", "React", "Tally"}
	jobTypes   = []string{"Full-time", "Part-time", "Contract", "Internship"}
	avail      = []string{"Immediate", "15 days", "30 days", "60 days"}
	contacted  = []string{"Yes", "No", "No", "yes"}
)

func (g *generator) pick(vals []string) string { return vals[g.r.Intn(len(vals))] }

func (g *generator) leads(n int) []table.Row {
	out := make([]table.Row, 0, n)
	for i := 0; i < n; i++ {
		g.n++
		first, last := g.pick(firstNames), g.pick(lastNames)
		years := g.r.Intn(15)
		nSkills := 1 + g.r.Intn(4)
		sk := make([]string, 0, nSkills)
		for j := 0; j < nSkills; j++ {
			sk = append(sk, g.pick(skills))
		}
		salary := 300000 + years*120000 + g.r.Intn(200000)
		out = append(out, table.Row{
			"Name":                 first + " " + last,
			"Email":                fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), g.n),
			"Location":             g.pick(locations),
			"Preferred Location":   g.pick(locations),
			"Experience Level":     g.pick(levels),
			"Designation":          g.pick(domains) + " Associate",
			"Qualification":        g.pick(quals),
			"Preferred Job Domain": g.pick(domains),
			"Skills":               strings.Join(sk, ", "),
			"Specialist Skill":     sk[0],
			"Years of Experience":  strconv.Itoa(years),
			"Expected Salary":      strconv.Itoa(salary),
			"Availability":         g.pick(avail),
			"Preferred Shift":      g.pick(shifts),
			"Job Type":             g.pick(jobTypes),
			"Source":               g.pick(sources),
			"Contacted":            g.pick(contacted),
			"Skills Count":         strconv.Itoa(nSkills),
			"Salary Package":       strconv.Itoa(salary / 100000),
		})
	}
	return out
}
