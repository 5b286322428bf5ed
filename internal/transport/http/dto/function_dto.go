package dto

import (
	"github.com/deployrt/scmcore/internal/functions/model"
	"github.com/deployrt/scmcore/internal/jsonvalue"
)

// FunctionResponse represents one function envelope over HTTP.
type FunctionResponse struct {
	Name   string          `json:"name"`
	Config jsonvalue.Value `json:"config"`

	ScriptRootHref    string `json:"script_root_href"`
	PrimaryScriptHref string `json:"primary_script_href"`
	ConfigFileHref    string `json:"config_file_href"`
	TestDataHref      string `json:"test_data_href"`
	SecretsHref       string `json:"secrets_href"`
	SelfHref          string `json:"self_href"`
	Disabled          bool   `json:"disabled"`
}

// FunctionListResponse is the envelope for List.
type FunctionListResponse struct {
	Functions []FunctionResponse `json:"functions"`
	Total     int                `json:"total"`
}

// FunctionFromModel converts a FunctionEnvelope to its HTTP response shape.
func FunctionFromModel(env model.FunctionEnvelope) FunctionResponse {
	return FunctionResponse{
		Name:              env.Name,
		Config:            env.Config,
		ScriptRootHref:    env.ScriptRootHref,
		PrimaryScriptHref: env.PrimaryScriptHref,
		ConfigFileHref:    env.ConfigFileHref,
		TestDataHref:      env.TestDataHref,
		SecretsHref:       env.SecretsHref,
		SelfHref:          env.SelfHref,
		Disabled:          env.Disabled(),
	}
}

// FunctionListFromModels converts a slice of envelopes to FunctionListResponse.
func FunctionListFromModels(envs []model.FunctionEnvelope) FunctionListResponse {
	responses := make([]FunctionResponse, len(envs))
	for i, env := range envs {
		responses[i] = FunctionFromModel(env)
	}
	return FunctionListResponse{Functions: responses, Total: len(responses)}
}

// UpdateFunctionRequest is the request body for CreateOrUpdate when the
// caller is editing function.json directly rather than uploading files.
type UpdateFunctionRequest struct {
	Config jsonvalue.Value `json:"config"`
}

// HostConfigResponse wraps host.json for HTTP transport.
type HostConfigResponse struct {
	Config jsonvalue.Value `json:"config"`
}
