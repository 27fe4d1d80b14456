// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upaws

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

const (
	LambdaMetricsNamespace = "AWS/Lambda"
	DefaultMetricsPeriod   = 60 * time.Second

	// MeasurementFunctionUsage is the line protocol measurement of Sample.
	MeasurementFunctionUsage = "function_usage"

	// GetMetricData accepts at most this many queries per request.
	maxMetricDataQueries = 500
)

// LambdaMetric is a CloudWatch metric of AWS/Lambda, and the statistic that
// is collected for it.
type LambdaMetric struct {
	Name  string
	Stat  string
	Field string
}

// LambdaMetrics are collected for every function.
var LambdaMetrics = []LambdaMetric{
	{Name: "Invocations", Stat: cloudwatch.StatisticSum, Field: "invocations"},
	{Name: "Duration", Stat: cloudwatch.StatisticAverage, Field: "execution_times"},
	{Name: "Errors", Stat: cloudwatch.StatisticSum, Field: "errors"},
	{Name: "ConcurrentExecutions", Stat: cloudwatch.StatisticMaximum, Field: "concurrent_invocations"},
}

// Sample holds the metric values of one function for one period.
type Sample struct {
	Function  string
	Timestamp time.Time
	Values    map[string]float64
}

// LineProtocol formats s as an InfluxDB line, tagged with the function and
// the cluster it was collected from.
func (s Sample) LineProtocol(cluster string) string {
	fields := make([]string, 0, len(s.Values))
	for k, v := range s.Values {
		fields = append(fields, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(fields)

	tags := "action=" + escapeTag(s.Function)
	if cluster != "" {
		tags += ",cluster_name=" + escapeTag(cluster)
	}
	return fmt.Sprintf("%s,%s %s %d", MeasurementFunctionUsage, tags, strings.Join(fields, ","), s.Timestamp.UnixNano())
}

func escapeTag(s string) string {
	return strings.NewReplacer(",", `\,`, " ", `\ `, "=", `\=`).Replace(s)
}

// Collector reads the invocation metrics of lambda functions from
// CloudWatch.
type Collector struct {
	cw     cloudwatchiface.CloudWatchAPI
	log    utils.Logger
	Period time.Duration
}

func NewCollector(cw cloudwatchiface.CloudWatchAPI, log utils.Logger) *Collector {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &Collector{
		cw:     cw,
		log:    log,
		Period: DefaultMetricsPeriod,
	}
}

func MakeCollector(awsAccessKeyID, awsSecretAccessKey, region string, log utils.Logger) (*Collector, error) {
	awsSession, awsConfig, err := newSession(awsAccessKeyID, awsSecretAccessKey, region, log)
	if err != nil {
		return nil, err
	}
	return NewCollector(cloudwatch.New(awsSession, awsConfig), log), nil
}

// MakeCollectorFromEnv is MakeCollector with the credentials and the region
// read from the PROBES_AWS_ environment variables.
func MakeCollectorFromEnv(log utils.Logger) (*Collector, error) {
	accessKey, secretKey, region, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}
	return MakeCollector(accessKey, secretKey, region, log)
}

type queryRef struct {
	function string
	field    string
}

// CollectManifest collects the metrics of all lambda functions of m.
func (c *Collector) CollectManifest(ctx context.Context, m function.Manifest, start, end time.Time) ([]Sample, error) {
	if m.AWSLambda == nil {
		return nil, utils.NewInvalidError("%s has no aws_lambda section in the manifest", m.AppID)
	}
	var names []string
	for _, f := range m.AWSLambda.Functions {
		names = append(names, LambdaName(m, f.Name))
	}
	return c.Collect(ctx, names, start, end)
}

// Collect returns one Sample per function and period with data between
// start and end, ordered by function and time.
func (c *Collector) Collect(ctx context.Context, functions []string, start, end time.Time) ([]Sample, error) {
	if !end.After(start) {
		return nil, utils.NewInvalidError("end %s must be after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	period := int64(c.Period / time.Second)
	if period <= 0 {
		period = int64(DefaultMetricsPeriod / time.Second)
	}

	refs := map[string]queryRef{}
	var queries []*cloudwatch.MetricDataQuery
	for i, name := range functions {
		for j, metric := range LambdaMetrics {
			id := fmt.Sprintf("m%d_%d", i, j)
			refs[id] = queryRef{function: name, field: metric.Field}
			queries = append(queries, &cloudwatch.MetricDataQuery{
				Id: aws.String(id),
				MetricStat: &cloudwatch.MetricStat{
					Metric: &cloudwatch.Metric{
						Namespace:  aws.String(LambdaMetricsNamespace),
						MetricName: aws.String(metric.Name),
						Dimensions: []*cloudwatch.Dimension{{
							Name:  aws.String("FunctionName"),
							Value: aws.String(name),
						}},
					},
					Period: aws.Int64(period),
					Stat:   aws.String(metric.Stat),
				},
				ReturnData: aws.Bool(true),
			})
		}
	}

	samples := map[queryRef]*Sample{}
	for len(queries) > 0 {
		n := len(queries)
		if n > maxMetricDataQueries {
			n = maxMetricDataQueries
		}
		batch := queries[:n]
		queries = queries[n:]

		err := c.cw.GetMetricDataPagesWithContext(ctx, &cloudwatch.GetMetricDataInput{
			MetricDataQueries: batch,
			StartTime:         aws.Time(start),
			EndTime:           aws.Time(end),
			ScanBy:            aws.String(cloudwatch.ScanByTimestampAscending),
		}, func(out *cloudwatch.GetMetricDataOutput, lastPage bool) bool {
			for _, result := range out.MetricDataResults {
				ref, ok := refs[aws.StringValue(result.Id)]
				if !ok {
					continue
				}
				for k, ts := range result.Timestamps {
					if ts == nil || k >= len(result.Values) {
						continue
					}
					key := queryRef{function: ref.function, field: ts.UTC().Format(time.RFC3339)}
					s := samples[key]
					if s == nil {
						s = &Sample{Function: ref.function, Timestamp: ts.UTC(), Values: map[string]float64{}}
						samples[key] = s
					}
					s.Values[ref.field] = aws.Float64Value(result.Values[k])
				}
			}
			return true
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get metric data")
		}
	}

	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Function != out[j].Function {
			return out[i].Function < out[j].Function
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	c.log.Debugw("Collected metrics", "functions", len(functions), "samples", len(out))
	return out, nil
}
