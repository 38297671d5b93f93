// Package workflow starts external pipeline executions on AWS Step Functions.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

type executionAPI interface {
	StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error)
}

// Starter starts executions of a single state machine.
type Starter struct {
	api             executionAPI
	stateMachineARN string
	log             *slog.Logger
}

// NewStarter builds a Starter from an AWS config.
func NewStarter(awsCfg aws.Config, stateMachineARN string, logger *slog.Logger) *Starter {
	return New(sfn.NewFromConfig(awsCfg), stateMachineARN, logger)
}

// New wraps an existing Step Functions client.
func New(api executionAPI, stateMachineARN string, logger *slog.Logger) *Starter {
	return &Starter{
		api:             api,
		stateMachineARN: stateMachineARN,
		log:             logger.With("adapter", "sfn"),
	}
}

// StartExecution starts an execution named name with input encoded as JSON
// and returns its ARN.
func (s *Starter) StartExecution(ctx context.Context, name string, input any) (string, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("sfn: marshal input: %w", err)
	}

	out, err := s.api.StartExecution(ctx, &sfn.StartExecutionInput{
		StateMachineArn: aws.String(s.stateMachineARN),
		Name:            aws.String(name),
		Input:           aws.String(string(body)),
	})
	if err != nil {
		return "", fmt.Errorf("sfn: start execution %s: %w: %w", name, domain.ErrExternalService, err)
	}

	arn := aws.ToString(out.ExecutionArn)
	s.log.InfoContext(ctx, "execution started", slog.String("name", name), slog.String("execution_arn", arn))
	return arn, nil
}
