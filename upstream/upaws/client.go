// Copyright (c) 2019-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upaws

import (
	"context"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"

	"github.com/mattermost/mattermost-faas-probes/utils"
)

const (
	EnvAccessKey = "PROBES_AWS_ACCESS_KEY"
	EnvSecretKey = "PROBES_AWS_SECRET_KEY"
	EnvRegion    = "PROBES_AWS_REGION"

	DefaultRegion = "us-east-1"
)

type ARN string

func (arn ARN) AWSString() *string {
	return aws.String(string(arn))
}

// LambdaConfig is what a lambda function is created with.
type LambdaConfig struct {
	Name    string
	Handler string
	Runtime string
	Role    ARN
	Memory  int64
	Timeout int64
	Env     map[string]string
}

//go:generate mockgen -destination=../../mocks/mock_upaws/mock_client.go -package=mock_upaws github.com/mattermost/mattermost-faas-probes/upstream/upaws Client

// Client is an authenticated client for interacting with AWS Lambda. It
// provides a thin layer on top of aws-sdk-go, and contains all AWS
// dependencies.
type Client interface {
	// Proxy methods
	InvokeLambda(ctx context.Context, name string, invocationType string, payload []byte) ([]byte, error)

	// Admin methods
	CreateLambda(ctx context.Context, zipFile io.Reader, conf LambdaConfig) (ARN, error)
	CreateOrUpdateLambda(ctx context.Context, zipFile io.Reader, conf LambdaConfig) (ARN, error)
	DeleteLambda(ctx context.Context, name string) error
}

type client struct {
	lambda lambdaiface.LambdaAPI
	log    utils.Logger
}

func MakeClient(awsAccessKeyID, awsSecretAccessKey, region string, log utils.Logger) (Client, error) {
	awsSession, awsConfig, err := newSession(awsAccessKeyID, awsSecretAccessKey, region, log)
	if err != nil {
		return nil, err
	}
	return NewClient(lambda.New(awsSession, awsConfig), log), nil
}

func newSession(awsAccessKeyID, awsSecretAccessKey, region string, log utils.Logger) (*session.Session, *aws.Config, error) {
	awsConfig := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(awsAccessKeyID, awsSecretAccessKey, ""),
	}

	awsSession, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, nil, err
	}

	awsSession.Handlers.Complete.PushFront(func(r *request.Request) {
		if r.HTTPResponse != nil && r.HTTPRequest != nil {
			log.Debugw("AWS request",
				"method", r.HTTPRequest.Method,
				"url", r.HTTPRequest.URL.String(),
				"status", r.HTTPResponse.Status,
				"aws-service-id", r.ClientInfo.ServiceID,
				"aws-operation-name", r.Operation.Name)
		}
	})
	return awsSession, awsConfig, nil
}

// MakeClientFromEnv is MakeClient with the credentials and the region read
// from the PROBES_AWS_ environment variables.
func MakeClientFromEnv(log utils.Logger) (Client, error) {
	accessKey, secretKey, region, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}
	return MakeClient(accessKey, secretKey, region, log)
}

func credentialsFromEnv() (accessKey, secretKey, region string, err error) {
	accessKey = os.Getenv(EnvAccessKey)
	secretKey = os.Getenv(EnvSecretKey)
	if accessKey == "" || secretKey == "" {
		return "", "", "", utils.NewInvalidError("%s and %s must be set", EnvAccessKey, EnvSecretKey)
	}
	region = os.Getenv(EnvRegion)
	if region == "" {
		region = DefaultRegion
	}
	return accessKey, secretKey, region, nil
}

// NewClient wraps an existing lambda API client, e.g. a test double.
func NewClient(api lambdaiface.LambdaAPI, log utils.Logger) Client {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &client{
		lambda: api,
		log:    log,
	}
}
