// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upaws

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

type fakeCloudWatch struct {
	cloudwatchiface.CloudWatchAPI

	inputs []*cloudwatch.GetMetricDataInput
	// values by function name and metric name
	values map[string]map[string]float64
}

func (f *fakeCloudWatch) GetMetricDataPagesWithContext(_ aws.Context, in *cloudwatch.GetMetricDataInput, fn func(*cloudwatch.GetMetricDataOutput, bool) bool, _ ...request.Option) error {
	f.inputs = append(f.inputs, in)
	ts := aws.TimeValue(in.StartTime).Add(time.Minute)

	var results []*cloudwatch.MetricDataResult
	for _, q := range in.MetricDataQueries {
		metric := q.MetricStat.Metric
		name := aws.StringValue(metric.Dimensions[0].Value)
		v, ok := f.values[name][aws.StringValue(metric.MetricName)]
		if !ok {
			continue
		}
		results = append(results, &cloudwatch.MetricDataResult{
			Id:         q.Id,
			Timestamps: []*time.Time{aws.Time(ts)},
			Values:     []*float64{aws.Float64(v)},
			StatusCode: aws.String(cloudwatch.StatusCodeComplete),
		})
	}
	// Two pages, to check that results are merged across them.
	half := len(results) / 2
	if !fn(&cloudwatch.GetMetricDataOutput{MetricDataResults: results[:half]}, false) {
		return nil
	}
	fn(&cloudwatch.GetMetricDataOutput{MetricDataResults: results[half:]}, true)
	return nil
}

func TestCollect(t *testing.T) {
	cw := &fakeCloudWatch{
		values: map[string]map[string]float64{
			"probes-v1-0-0-time": {"Invocations": 3, "Duration": 12.5, "Errors": 1, "ConcurrentExecutions": 2},
			"probes-v1-0-0-nodeinfo": {"Invocations": 1},
		},
	}
	c := NewCollector(cw, utils.NewTestLogger())
	m := function.Manifest{
		AppID:   "probes",
		Version: "v1.0.0",
		AWSLambda: &function.AWSLambda{
			Functions: []function.AWSLambdaFunction{
				{Path: "/time", Name: "time"},
				{Path: "/nodeinfo", Name: "nodeinfo"},
			},
		},
	}
	start := time.Date(2021, time.July, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)

	samples, err := c.CollectManifest(context.Background(), m, start, end)
	require.NoError(t, err)

	expected := []Sample{
		{Function: "probes-v1-0-0-nodeinfo", Timestamp: start.Add(time.Minute), Values: map[string]float64{"invocations": 1}},
		{Function: "probes-v1-0-0-time", Timestamp: start.Add(time.Minute), Values: map[string]float64{
			"invocations":            3,
			"execution_times":        12.5,
			"errors":                 1,
			"concurrent_invocations": 2,
		}},
	}
	if diff := cmp.Diff(expected, samples); diff != "" {
		t.Fatalf("unexpected samples (-want +got):\n%s", diff)
	}

	require.Len(t, cw.inputs, 1)
	in := cw.inputs[0]
	require.Len(t, in.MetricDataQueries, 2*len(LambdaMetrics))
	q := in.MetricDataQueries[0]
	assert.Equal(t, "AWS/Lambda", aws.StringValue(q.MetricStat.Metric.Namespace))
	assert.Equal(t, "Invocations", aws.StringValue(q.MetricStat.Metric.MetricName))
	assert.Equal(t, "Sum", aws.StringValue(q.MetricStat.Stat))
	assert.Equal(t, int64(60), aws.Int64Value(q.MetricStat.Period))
	assert.Equal(t, start, aws.TimeValue(in.StartTime))
	assert.Equal(t, end, aws.TimeValue(in.EndTime))
}

func TestCollectInvalid(t *testing.T) {
	c := NewCollector(&fakeCloudWatch{}, nil)
	now := time.Now()

	_, err := c.Collect(context.Background(), []string{"f"}, now, now)
	require.Equal(t, utils.ErrInvalid, errors.Cause(err))

	_, err = c.CollectManifest(context.Background(), function.Manifest{AppID: "probes"}, now.Add(-time.Hour), now)
	require.Equal(t, utils.ErrInvalid, errors.Cause(err))
}

func TestSampleLineProtocol(t *testing.T) {
	s := Sample{
		Function:  "probes-v1-0-0-time",
		Timestamp: time.Unix(1626339660, 0),
		Values:    map[string]float64{"invocations": 3, "execution_times": 12.5},
	}
	require.Equal(t,
		"function_usage,action=probes-v1-0-0-time,cluster_name=my\\ cluster execution_times=12.5,invocations=3 1626339660000000000",
		s.LineProtocol("my cluster"))
	require.Equal(t,
		"function_usage,action=probes-v1-0-0-time execution_times=12.5,invocations=3 1626339660000000000",
		s.LineProtocol(""))
}
