package equilibrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultServiceBaseURL addresses the public eQuilibrator estimation service.
	DefaultServiceBaseURL = "https://equilibrator.weizmann.ac.il/api"

	reactionEvaluationPathConstant           = "/reactions/evaluate"
	compoundMatchPathConstant                = "/compounds/match"
	compoundNameQueryParameterConstant       = "name"
	jsonContentTypeConstant                  = "application/json"
	contentTypeHeaderNameConstant            = "Content-Type"
	acceptHeaderNameConstant                 = "Accept"
	defaultRequestTimeoutConstant            = 30 * time.Second
	requestEncodingErrorTemplateConstant     = "unable to encode estimation request: %w"
	requestCreationErrorTemplateConstant     = "unable to create estimation request: %w"
	requestExecutionErrorTemplateConstant    = "estimation service request failed: %w"
	responseDecodingErrorTemplateConstant    = "unable to decode estimation response: %w"
	unexpectedStatusErrorTemplateConstant    = "estimation service returned status %d"
	emptyFormulaErrorMessageConstant         = "reaction formula must not be empty"
	emptyCompoundNameErrorMessageConstant    = "compound name must not be empty"
	evaluationRequestMessageConstant         = "evaluating reaction formula"
	compoundMatchRequestMessageConstant      = "matching compound name"
	logFieldFormulaConstant                  = "formula"
	logFieldCompoundNameConstant             = "compound_name"
)

// ErrUnparsableFormula signals that the service could not parse the submitted reaction formula.
var ErrUnparsableFormula = errors.New("reaction formula could not be parsed by the estimation service")

// ErrCalculationFailed signals that the standard Gibbs energy change could not be computed.
//
// A typical cause is a participating compound that the group contribution
// method cannot decompose.
var ErrCalculationFailed = errors.New("reversibility index could not be calculated")

// ErrNoCompoundMatch signals that the compound matcher found no candidate for a name.
var ErrNoCompoundMatch = errors.New("no compound match found")

// HTTPClient abstracts request execution for deterministic testing.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// ReactionEvaluation reports the estimation service verdict for one formula.
type ReactionEvaluation struct {
	Balanced           bool
	ReversibilityIndex float64
}

// CompoundMatch pairs a canonical compound identifier with its match score.
type CompoundMatch struct {
	CompoundID string
	Score      float64
}

// Client is a typed client for the thermodynamic estimation service.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	logger     *zap.Logger
}

type reactionEvaluationRequestPayload struct {
	Formula string `json:"formula"`
}

type reactionEvaluationResponsePayload struct {
	Parsable           bool     `json:"parsable"`
	Balanced           bool     `json:"balanced"`
	Calculable         bool     `json:"calculable"`
	ReversibilityIndex *float64 `json:"reversibility_index"`
	Detail             string   `json:"detail,omitempty"`
}

type compoundMatchResponsePayload struct {
	Matches []compoundMatchEntryPayload `json:"matches"`
}

type compoundMatchEntryPayload struct {
	CompoundID string  `json:"compound_id"`
	Score      float64 `json:"score"`
}

// NewClient constructs a Client for the provided service base URL.
func NewClient(httpClient HTTPClient, serviceBaseURL string, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeoutConstant}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	trimmedBaseURL := strings.TrimRight(strings.TrimSpace(serviceBaseURL), "/")
	if len(trimmedBaseURL) == 0 {
		trimmedBaseURL = DefaultServiceBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    trimmedBaseURL,
		logger:     logger,
	}
}

// EvaluateReaction submits a compound-level formula for balancing and reversibility estimation.
//
// The returned error wraps ErrUnparsableFormula when the formula contains
// identifiers outside the canonical compound space and ErrCalculationFailed
// when the Gibbs energy change cannot be computed for a balanced reaction.
func (client *Client) EvaluateReaction(executionContext context.Context, reactionFormula string) (ReactionEvaluation, error) {
	trimmedFormula := strings.TrimSpace(reactionFormula)
	if len(trimmedFormula) == 0 {
		return ReactionEvaluation{}, errors.New(emptyFormulaErrorMessageConstant)
	}

	client.logger.Debug(evaluationRequestMessageConstant, zap.String(logFieldFormulaConstant, trimmedFormula))

	encodedPayload, encodeError := json.Marshal(reactionEvaluationRequestPayload{Formula: trimmedFormula})
	if encodeError != nil {
		return ReactionEvaluation{}, fmt.Errorf(requestEncodingErrorTemplateConstant, encodeError)
	}

	evaluationRequest, requestError := http.NewRequestWithContext(
		executionContext,
		http.MethodPost,
		client.baseURL+reactionEvaluationPathConstant,
		bytes.NewReader(encodedPayload),
	)
	if requestError != nil {
		return ReactionEvaluation{}, fmt.Errorf(requestCreationErrorTemplateConstant, requestError)
	}
	evaluationRequest.Header.Set(contentTypeHeaderNameConstant, jsonContentTypeConstant)
	evaluationRequest.Header.Set(acceptHeaderNameConstant, jsonContentTypeConstant)

	var decodedResponse reactionEvaluationResponsePayload
	if responseError := client.executeRequest(evaluationRequest, &decodedResponse); responseError != nil {
		return ReactionEvaluation{}, responseError
	}

	if !decodedResponse.Parsable {
		return ReactionEvaluation{}, fmt.Errorf("%w: %s", ErrUnparsableFormula, decodedResponse.Detail)
	}

	if !decodedResponse.Balanced {
		return ReactionEvaluation{Balanced: false}, nil
	}

	if !decodedResponse.Calculable || decodedResponse.ReversibilityIndex == nil {
		return ReactionEvaluation{}, fmt.Errorf("%w: %s", ErrCalculationFailed, decodedResponse.Detail)
	}

	return ReactionEvaluation{
		Balanced:           true,
		ReversibilityIndex: *decodedResponse.ReversibilityIndex,
	}, nil
}

// MatchCompound resolves the best-scoring canonical compound identifier for a metabolite name.
func (client *Client) MatchCompound(executionContext context.Context, compoundName string) (CompoundMatch, error) {
	trimmedName := strings.TrimSpace(compoundName)
	if len(trimmedName) == 0 {
		return CompoundMatch{}, errors.New(emptyCompoundNameErrorMessageConstant)
	}

	client.logger.Debug(compoundMatchRequestMessageConstant, zap.String(logFieldCompoundNameConstant, trimmedName))

	queryParameters := url.Values{}
	queryParameters.Set(compoundNameQueryParameterConstant, trimmedName)

	matchRequest, requestError := http.NewRequestWithContext(
		executionContext,
		http.MethodGet,
		client.baseURL+compoundMatchPathConstant+"?"+queryParameters.Encode(),
		nil,
	)
	if requestError != nil {
		return CompoundMatch{}, fmt.Errorf(requestCreationErrorTemplateConstant, requestError)
	}
	matchRequest.Header.Set(acceptHeaderNameConstant, jsonContentTypeConstant)

	var decodedResponse compoundMatchResponsePayload
	if responseError := client.executeRequest(matchRequest, &decodedResponse); responseError != nil {
		return CompoundMatch{}, responseError
	}

	if len(decodedResponse.Matches) == 0 {
		return CompoundMatch{}, fmt.Errorf("%w: %s", ErrNoCompoundMatch, trimmedName)
	}

	bestMatch := decodedResponse.Matches[0]
	return CompoundMatch{CompoundID: bestMatch.CompoundID, Score: bestMatch.Score}, nil
}

func (client *Client) executeRequest(preparedRequest *http.Request, responseTarget any) error {
	serviceResponse, executionError := client.httpClient.Do(preparedRequest)
	if executionError != nil {
		return fmt.Errorf(requestExecutionErrorTemplateConstant, executionError)
	}
	defer serviceResponse.Body.Close()

	if serviceResponse.StatusCode != http.StatusOK {
		io.Copy(io.Discard, serviceResponse.Body)
		return fmt.Errorf(unexpectedStatusErrorTemplateConstant, serviceResponse.StatusCode)
	}

	if decodeError := json.NewDecoder(serviceResponse.Body).Decode(responseTarget); decodeError != nil {
		return fmt.Errorf(responseDecodingErrorTemplateConstant, decodeError)
	}

	return nil
}
