// Copyright (c) 2019-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package upaws

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

const MaxLambdaName = 64

// InvokeLambda runs a lambda function with specified name and returns a payload
func (c *client) InvokeLambda(ctx context.Context, name, invocationType string, payload []byte) ([]byte, error) {
	result, err := c.lambda.InvokeWithContext(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(name),
		InvocationType: aws.String(invocationType),
		Payload:        payload,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, utils.NewNotFoundError(err)
		}
		return nil, errors.Wrapf(err, "invoke AWS Lambda function %s", name)
	}
	if result.FunctionError != nil {
		return nil, errors.Errorf("AWS Lambda function %s failed: %s: %s", name, *result.FunctionError, result.Payload)
	}
	return result.Payload, nil
}

// CreateLambda method creates lambda function
func (c *client) CreateLambda(ctx context.Context, archive io.Reader, conf LambdaConfig) (ARN, error) {
	if archive == nil || conf.Name == "" || conf.Handler == "" || conf.Role == "" || conf.Runtime == "" {
		return "", utils.NewInvalidError("you must supply an archive (.zip) file, function name, handler, role ARN and runtime - %p %q %q %q %q", archive, conf.Name, conf.Handler, conf.Role, conf.Runtime)
	}

	contents, err := io.ReadAll(archive)
	if err != nil {
		return "", errors.Wrap(err, "could not read archive file")
	}

	createArgs := &lambda.CreateFunctionInput{
		Code: &lambda.FunctionCode{
			ZipFile: contents,
		},
		FunctionName: aws.String(conf.Name),
		Handler:      aws.String(conf.Handler),
		Role:         conf.Role.AWSString(),
		Runtime:      aws.String(conf.Runtime),
	}
	if conf.Memory > 0 {
		createArgs.MemorySize = aws.Int64(conf.Memory)
	}
	if conf.Timeout > 0 {
		createArgs.Timeout = aws.Int64(conf.Timeout)
	}
	if len(conf.Env) > 0 {
		createArgs.Environment = &lambda.Environment{
			Variables: aws.StringMap(conf.Env),
		}
	}

	fc, err := c.lambda.CreateFunctionWithContext(ctx, createArgs)
	if err != nil {
		return "", errors.Wrapf(err, "can't create function %s", conf.Name)
	}
	c.log.Infow("created function", "ARN", *fc.FunctionArn)
	return ARN(*fc.FunctionArn), nil
}

func (c *client) CreateOrUpdateLambda(ctx context.Context, zipFile io.Reader, conf LambdaConfig) (ARN, error) {
	if zipFile == nil || conf.Name == "" {
		return "", utils.NewInvalidError("you must supply a zip file and the function name")
	}

	fc, err := c.lambda.GetFunctionWithContext(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(conf.Name)})
	if err != nil {
		if !isNotFound(err) {
			return "", errors.Wrap(err, "failed go get function")
		}
		return c.CreateLambda(ctx, zipFile, conf)
	}

	contents, err := io.ReadAll(zipFile)
	if err != nil {
		return "", errors.Wrap(err, "could not read zip file")
	}
	_, err = c.lambda.UpdateFunctionCodeWithContext(ctx, &lambda.UpdateFunctionCodeInput{
		ZipFile:      contents,
		FunctionName: aws.String(conf.Name),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to update function %v", conf.Name)
	}
	c.log.Infow("updated function", "ARN", *fc.Configuration.FunctionArn)
	return ARN(*fc.Configuration.FunctionArn), nil
}

// DeleteLambda deletes a lambda function. A function that does not exist is
// reported with utils.ErrNotFound as the cause.
func (c *client) DeleteLambda(ctx context.Context, name string) error {
	_, err := c.lambda.DeleteFunctionWithContext(ctx, &lambda.DeleteFunctionInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			return utils.NewNotFoundError(err)
		}
		return errors.Wrapf(err, "failed to delete function %s", name)
	}
	c.log.Infow("deleted function", "name", name)
	return nil
}

func isNotFound(err error) bool {
	awsErr, ok := err.(awserr.Error)
	return ok && awsErr.Code() == lambda.ErrCodeResourceNotFoundException
}

// LambdaName generates the function name for a deployed function. Lambda
// names can be 64 characters long, longer ones are shortened with a hash.
func LambdaName(m function.Manifest, name string) string {
	qualified := function.QualifiedName(m.AppID, m.Version, name)
	if len(qualified) <= MaxLambdaName {
		return qualified
	}

	hash := sha256.Sum256([]byte(qualified))
	hashString := hex.EncodeToString(hash[:])[:16]
	return qualified[:MaxLambdaName-len(hashString)-1] + "-" + hashString
}
