package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/miyamo2/amap-flomo-mcp/internal/mcp"
	"github.com/miyamo2/amap-flomo-mcp/internal/mcp/transport"
)

func TestResolveCity(t *testing.T) {
	type test struct {
		city     string
		wantCode string
		wantName string
		wantErr  error
		anyErr   bool
	}
	tests := map[string]test{
		"known-code": {
			city:     "330106",
			wantCode: "330106",
			wantName: "浙江省杭州市西湖区",
		},
		"unknown-code-passes-through": {
			city:     "441900",
			wantCode: "441900",
			wantName: "441900",
		},
		"city-name-is-not-expanded": {
			city:     "杭州",
			wantCode: "330100",
			wantName: "浙江省杭州市",
		},
		"province-name-is-not-expanded": {
			city:     "浙江",
			wantCode: "330000",
			wantName: "浙江省",
		},
		"municipality": {
			city:     "北京",
			wantCode: "110000",
			wantName: "北京市",
		},
		"district-name": {
			city:     "西湖",
			wantCode: "330106",
			wantName: "浙江省杭州市西湖区",
		},
		"trimmed": {
			city:     "  朝阳 ",
			wantCode: "110105",
			wantName: "北京市朝阳区",
		},
		"no-match": {
			city:    "火星",
			wantErr: ErrNoDivision,
		},
		"empty": {
			city:   "",
			anyErr: true,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := New(newTestDivision(t), &fakeWeather{}, &fakeNote{}, nil)
			got, err := h.resolveCity(context.Background(), tt.city)
			if tt.wantErr != nil || tt.anyErr {
				if err == nil {
					t.Fatalf("resolveCity(%q) want error, got %+v", tt.city, got)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("resolveCity(%q) error = %v, want %v", tt.city, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveCity(%q) unexpected error: %v", tt.city, err)
			}
			if got.Code != tt.wantCode {
				t.Errorf("resolveCity(%q) code = %s, want %s", tt.city, got.Code, tt.wantCode)
			}
			if got.Name != tt.wantName {
				t.Errorf("resolveCity(%q) name = %s, want %s", tt.city, got.Name, tt.wantName)
			}
		})
	}
}

type rpcResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

type HandlerTestSuite struct {
	suite.Suite
	reader  *bufio.Reader
	writer  io.WriteCloser
	cancel  context.CancelFunc
	done    chan error
	seq     int
	weather *fakeWeather
	note    *fakeNote
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	serverRead, clientWrite := io.Pipe()
	clientRead, serverWrite := io.Pipe()
	s.reader = bufio.NewReader(clientRead)
	s.writer = clientWrite
	s.done = make(chan error, 1)
	s.weather = &fakeWeather{}
	s.note = &fakeNote{}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := mcp.New("amap-flomo-mcp", mcp.WithLogger(logger))
	New(newTestDivision(s.T()), s.weather, s.note, logger).Register(srv)

	ready := make(chan struct{})
	go func() {
		s.done <- srv.Start(
			mcp.StartWithContext(ctx),
			mcp.StartWithReadySignal(ready),
			mcp.StartWithListener(transport.NewStdio(ctx,
				transport.StdioWithReadCloser(serverRead),
				transport.StdioWithWriteCloser(serverWrite))))
	}()
	<-ready
	s.call(mcp.MethodInitialize, map[string]any{
		"protocolVersion": mcp.LatestProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "handler-test", "version": "1.0.0"},
	})
}

func (s *HandlerTestSuite) TearDownTest() {
	s.cancel()
	s.writer.Close()
	select {
	case err := <-s.done:
		s.Require().NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("server did not stop")
	}
}

func (s *HandlerTestSuite) call(method string, params any) rpcResponse {
	s.seq++
	id := strconv.Itoa(s.seq)
	p, err := json.Marshal(params)
	s.Require().NoError(err)
	b, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  json.RawMessage(p),
	})
	s.Require().NoError(err)
	_, err = s.writer.Write(append(b, '\n'))
	s.Require().NoError(err)

	line, err := s.reader.ReadBytes('\n')
	s.Require().NoError(err)
	var resp rpcResponse
	s.Require().NoError(json.Unmarshal(line, &resp))
	s.Require().Equal(id, resp.ID)
	return resp
}

func (s *HandlerTestSuite) callTool(name string, args any) toolResult {
	resp := s.call(mcp.MethodToolsCall, map[string]any{"name": name, "arguments": args})
	s.Require().Nil(resp.Error)
	var result toolResult
	s.Require().NoError(json.Unmarshal(resp.Result, &result))
	s.Require().Len(result.Content, 1)
	return result
}

func (s *HandlerTestSuite) TestToolsList() {
	resp := s.call(mcp.MethodToolsList, map[string]any{})
	s.Require().Nil(resp.Error)
	var result struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	s.Require().NoError(json.Unmarshal(resp.Result, &result))
	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	s.Require().Equal([]string{"geocode", "get_weather", "search_city", "write_note"}, names)
}

func (s *HandlerTestSuite) TestGetWeather_ByName() {
	result := s.callTool("get_weather", map[string]any{"city": "西湖", "forecast": true})
	s.Require().False(result.IsError, result.Content[0].Text)

	var got WeatherResponse
	s.Require().NoError(json.Unmarshal([]byte(result.Content[0].Text), &got))
	s.Require().Equal("330106", got.City.Code)
	s.Require().Equal("district", got.City.Tier)
	s.Require().Equal("晴", got.Weather.Live.Weather)
	s.Require().Len(got.Weather.Forecasts, 1)
	s.Require().Equal([]string{"330106"}, s.weather.adcodes)
}

func (s *HandlerTestSuite) TestGetWeather_NameAndCodeAgree() {
	var byName, byCode WeatherResponse
	result := s.callTool("get_weather", map[string]any{"city": "杭州"})
	s.Require().False(result.IsError, result.Content[0].Text)
	s.Require().NoError(json.Unmarshal([]byte(result.Content[0].Text), &byName))

	result = s.callTool("get_weather", map[string]any{"city": "330100"})
	s.Require().False(result.IsError, result.Content[0].Text)
	s.Require().NoError(json.Unmarshal([]byte(result.Content[0].Text), &byCode))

	s.Require().Equal(City{Name: "浙江省杭州市", Code: "330100", ServiceCode: "0571", Tier: "city"}, byName.City)
	s.Require().Equal(byName.City, byCode.City)
	s.Require().Equal([]string{"330100", "330100"}, s.weather.adcodes)
}

func (s *HandlerTestSuite) TestGetWeather_Errors() {
	result := s.callTool("get_weather", map[string]any{"city": "火星"})
	s.Require().True(result.IsError)
	s.Require().Contains(result.Content[0].Text, "火星")

	result = s.callTool("get_weather", map[string]any{"city": "999999"})
	s.Require().True(result.IsError)
	s.Require().Contains(result.Content[0].Text, "upstream down")
}

func (s *HandlerTestSuite) TestWriteNote() {
	result := s.callTool("write_note", map[string]any{"content": "今天晴", "tags": []string{"weather"}})
	s.Require().False(result.IsError, result.Content[0].Text)
	s.Require().Contains(result.Content[0].Text, "MTIz")
	s.Require().Len(s.note.written, 1)
	s.Require().Equal([]string{"weather"}, s.note.written[0].Tags)

	result = s.callTool("write_note", map[string]any{"content": "  "})
	s.Require().True(result.IsError)
}

func (s *HandlerTestSuite) TestGeocode() {
	result := s.callTool("geocode", map[string]any{"address": "阜通东大街6号", "city": "北京"})
	s.Require().False(result.IsError, result.Content[0].Text)
	s.Require().Contains(result.Content[0].Text, "110105")

	result = s.callTool("geocode", map[string]any{"address": ""})
	s.Require().True(result.IsError)
}

func (s *HandlerTestSuite) TestSearchCity() {
	result := s.callTool("search_city", map[string]any{"keyword": "火星"})
	s.Require().False(result.IsError)
	s.Require().Equal("[]", result.Content[0].Text)

	result = s.callTool("search_city", map[string]any{"keyword": "北京"})
	var got []struct {
		Code string `json:"code"`
	}
	s.Require().NoError(json.Unmarshal([]byte(result.Content[0].Text), &got))
	s.Require().Len(got, 2)
}

func (s *HandlerTestSuite) TestCityResource() {
	resp := s.call(mcp.MethodResourcesRead, map[string]any{"uri": "amap://city/110105"})
	s.Require().Nil(resp.Error)
	var result struct {
		Contents []struct {
			URI      string `json:"uri"`
			MimeType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
	}
	s.Require().NoError(json.Unmarshal(resp.Result, &result))
	s.Require().Len(result.Contents, 1)
	s.Require().Equal("application/json", result.Contents[0].MimeType)
	s.Require().JSONEq(`{"name":"北京市朝阳区","code":"110105","serviceCode":"010","tier":"district"}`, result.Contents[0].Text)

	resp = s.call(mcp.MethodResourcesRead, map[string]any{"uri": "amap://city/000000"})
	s.Require().NotNil(resp.Error)
	s.Require().Equal(-32002, resp.Error.Code)
}

func (s *HandlerTestSuite) TestResourcesList() {
	resp := s.call(mcp.MethodResourcesList, map[string]any{})
	s.Require().Nil(resp.Error)
	var result struct {
		Resources []struct {
			URI  string `json:"uri"`
			Name string `json:"name"`
		} `json:"resources"`
	}
	s.Require().NoError(json.Unmarshal(resp.Result, &result))
	var uris []string
	for _, r := range result.Resources {
		uris = append(uris, r.URI)
	}
	s.Require().Equal([]string{
		"amap://city/110101",
		"amap://city/110105",
		"amap://city/330102",
		"amap://city/330106",
	}, uris)
	s.Require().Equal("北京市东城区", result.Resources[0].Name)
}

func (s *HandlerTestSuite) TestPrompts() {
	resp := s.call(mcp.MethodPromptsGet, map[string]any{
		"name":      "note_weather",
		"arguments": map[string]string{"city": "杭州"},
	})
	s.Require().Nil(resp.Error)
	var result struct {
		Messages []struct {
			Role    string `json:"role"`
			Content struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	s.Require().NoError(json.Unmarshal(resp.Result, &result))
	s.Require().Len(result.Messages, 1)
	s.Require().Equal("user", result.Messages[0].Role)
	s.Require().Contains(result.Messages[0].Content.Text, "write_note")
	s.Require().Contains(result.Messages[0].Content.Text, "杭州")

	resp = s.call(mcp.MethodPromptsGet, map[string]any{"name": "weather_report"})
	s.Require().NotNil(resp.Error)
}
