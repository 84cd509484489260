package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
	"sigs.k8s.io/yaml"

	"github.com/bayleafwalker/starter-core/internal/catalog"
	"github.com/bayleafwalker/starter-core/internal/project"
	"github.com/bayleafwalker/starter-core/internal/resolver"
	"github.com/bayleafwalker/starter-core/internal/version"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
}

type options struct {
	catalogPath      string
	catalogConfigMap string
	catalogKey       string
	query            string
	search           string
	searchAll        bool
	platformVersion  string
	output           string
	metricsFile      string
}

// searchOutput is printed for -search.
type searchOutput struct {
	PlatformVersion string   `json:"platformVersion"`
	Selectable      []string `json:"selectable"`
	Invalid         []string `json:"invalid"`
}

func main() {
	var o options
	flag.StringVar(&o.catalogPath, "catalog", "", "Path to the catalog document (YAML or JSON).")
	flag.StringVar(&o.catalogConfigMap, "catalog-configmap", "", "Load the catalog from a ConfigMap, as namespace/name.")
	flag.StringVar(&o.catalogKey, "catalog-key", catalog.DefaultConfigMapKey, "ConfigMap key holding the catalog document.")
	flag.StringVar(&o.query, "query", "", "Request as a query string, e.g. 'artifactId=my-project&dependencies=web,data-jpa'.")
	flag.StringVar(&o.search, "search", "", "Search the catalog instead of resolving a request.")
	flag.BoolVar(&o.searchAll, "search-all", false, "List every dependency split by compatibility.")
	flag.StringVar(&o.platformVersion, "platform-version", "", "Platform version used by -search. Defaults to the catalog default.")
	flag.StringVar(&o.output, "output", "yaml", "Output format: yaml or json.")
	flag.StringVar(&o.metricsFile, "metrics-file", "", "Write the collected metrics in Prometheus text format to this file before exiting.")

	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
	ctx := log.IntoContext(ctrl.SetupSignalHandler(), ctrl.Log.WithName("starter-resolve"))

	err := run(ctx, o, os.Stdout)
	if o.metricsFile != "" {
		if werr := writeMetricsFile(o.metricsFile); werr != nil {
			setupLog.Error(werr, "unable to write metrics", "path", o.metricsFile)
		}
	}
	if err != nil {
		setupLog.Error(err, "resolution failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, out io.Writer) error {
	if o.output != "yaml" && o.output != "json" {
		return fmt.Errorf("unsupported output %q", o.output)
	}

	cat, err := loadCatalog(ctx, o)
	if err != nil {
		return err
	}

	if o.search != "" || o.searchAll {
		return runSearch(o, cat, out)
	}

	req, err := project.ParseQuery(o.query)
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}
	resolved, err := project.NewResolver(cat).Resolve(ctx, req)
	if err != nil {
		return err
	}
	return write(out, o.output, resolved.API())
}

func loadCatalog(ctx context.Context, o options) (*catalog.Catalog, error) {
	switch {
	case o.catalogPath != "" && o.catalogConfigMap != "":
		return nil, errors.New("-catalog and -catalog-configmap are mutually exclusive")
	case o.catalogPath != "":
		return catalog.LoadFile(o.catalogPath)
	case o.catalogConfigMap != "":
		ns, name, ok := strings.Cut(o.catalogConfigMap, "/")
		if !ok || ns == "" || name == "" {
			return nil, fmt.Errorf("invalid -catalog-configmap %q, expected namespace/name", o.catalogConfigMap)
		}
		c, err := client.New(ctrl.GetConfigOrDie(), client.Options{Scheme: scheme})
		if err != nil {
			return nil, fmt.Errorf("create client: %w", err)
		}
		setupLog.Info("loading catalog", "configmap", o.catalogConfigMap, "key", o.catalogKey)
		return catalog.LoadConfigMap(ctx, c, types.NamespacedName{Namespace: ns, Name: name}, o.catalogKey)
	default:
		return nil, errors.New("one of -catalog or -catalog-configmap is required")
	}
}

func runSearch(o options, cat *catalog.Catalog, out io.Writer) error {
	v := cat.DefaultPlatformVersion()
	if o.platformVersion != "" {
		var err error
		if v, err = version.Parse(o.platformVersion); err != nil {
			return err
		}
	}

	res := resolver.Search(cat, v, o.search)
	so := searchOutput{
		PlatformVersion: v.String(),
		Selectable:      make([]string, 0, len(res.Selectable)),
		Invalid:         make([]string, 0, len(res.Invalid)),
	}
	for _, d := range res.Selectable {
		so.Selectable = append(so.Selectable, d.ID)
	}
	for _, d := range res.Invalid {
		so.Invalid = append(so.Invalid, d.ID)
	}
	return write(out, o.output, so)
}

func write(out io.Writer, format string, v any) error {
	var (
		data []byte
		err  error
	)
	if format == "json" {
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err = out.Write(data)
	return err
}

func writeMetricsFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeMetrics(f, metrics.Registry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeMetrics dumps every metric family of g in the text exposition format.
func writeMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
