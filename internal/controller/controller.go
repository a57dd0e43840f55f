/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of SCO2BC project.
 *
 * SCO2BC is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package controller

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/antst/sco2bc/internal/config"
	"github.com/antst/sco2bc/internal/cycle"
	"github.com/antst/sco2bc/internal/logger"
	"github.com/antst/sco2bc/internal/metrics"
	"github.com/antst/sco2bc/internal/safe_mqtt"
	"github.com/antst/sco2bc/internal/thermo"
)

const (
	timerDuration = 50 * time.Millisecond
	historySource = "controller"

	topicResult      = "result"
	topicError       = "error"
	topicLogLevel    = "log_level"
	topicRecalculate = "recalculate"
)

// parameterTopics are the editable cycle parameters, keyed by the last
// segment of their control topic. The same names are used as store keys.
var parameterTopics = map[string]func(p *cycle.Parameters) *float64{
	"p1":    func(p *cycle.Parameters) *float64 { return &p.P1 },
	"p2":    func(p *cycle.Parameters) *float64 { return &p.P2 },
	"t1":    func(p *cycle.Parameters) *float64 { return &p.T1 },
	"t3max": func(p *cycle.Parameters) *float64 { return &p.T3Max },
	"eta_c": func(p *cycle.Parameters) *float64 { return &p.CompressorEfficiency },
	"eta_t": func(p *cycle.Parameters) *float64 { return &p.TurbineEfficiency },
}

// Store is the persistence the controller needs.
type Store interface {
	UpsertControllerValue(ctx context.Context, name, value string) error
	GetControllerValue(ctx context.Context, name string) (string, error)
	SaveCycleRun(ctx context.Context, source string, params cycle.Parameters, res *cycle.Result) (string, error)
}

type parameterUpdate struct {
	name  string
	value float64
}

// CycleController keeps the live cycle parameters, takes edits from MQTT
// control topics and republishes the solved cycle after every burst of edits.
type CycleController struct {
	cfg        *config.Config
	mqtt       safe_mqtt.MqttClient
	store      Store
	props      thermo.PropertyProvider
	params     cycle.Parameters
	updateChan chan parameterUpdate
	forceChan  chan bool
}

type resultReport struct {
	Params cycle.Parameters `json:"params"`
	Result *cycle.Result    `json:"result"`
	RunID  string           `json:"run_id,omitempty"`
}

type errorReport struct {
	Params cycle.Parameters `json:"params"`
	Error  string           `json:"error"`
}

// NewCycleController restores the last parameters from the store, falling
// back to the config, and subscribes to the control topics.
func NewCycleController(
	cfg *config.Config, client safe_mqtt.MqttClient, store Store, props thermo.PropertyProvider,
) (*CycleController, error) {
	c := &CycleController{
		cfg:        cfg,
		mqtt:       client,
		store:      store,
		props:      props,
		params:     cfg.Cycle.Params(cfg.Fluid.Name),
		updateChan: make(chan parameterUpdate, 100),
		forceChan:  make(chan bool, 2),
	}
	c.restoreParameters()

	if err := c.setupMQTTSubscriptions(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CycleController) topic(name string) string {
	return c.cfg.MQTTConfig.ControlTopic + "/" + name
}

func (c *CycleController) setupMQTTSubscriptions() error {
	names := []string{topicLogLevel, topicRecalculate}
	for name := range parameterTopics {
		names = append(names, name)
	}
	for _, name := range names {
		if err := c.mqtt.SafeSubscribe(c.topic(name), 1, c.controlUpdateHandler); err != nil {
			return err
		}
	}
	return nil
}

func (c *CycleController) restoreParameters() {
	for name, field := range parameterTopics {
		dst := field(&c.params)
		raw := c.readValueWithDefault(name, "")
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			logger.L().Warnf("Ignoring stored value for `%s`: %v", name, err)
			continue
		}
		*dst = v
	}
	logger.L().Infof(
		"Cycle parameters: P1=%g Pa, T1=%g K, P2=%g Pa, T3max=%g K, eta_c=%g, eta_t=%g",
		c.params.P1, c.params.T1, c.params.P2, c.params.T3Max,
		c.params.CompressorEfficiency, c.params.TurbineEfficiency,
	)
}

// Parameters returns a copy of the current parameters. It must only be called
// while Run is not running.
func (c *CycleController) Parameters() cycle.Parameters {
	return c.params
}

// Run solves the cycle once at start and then after every debounced burst of
// parameter edits, until ctx is cancelled.
func (c *CycleController) Run(ctx context.Context) {
	timer := time.NewTimer(timerDuration)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.forceChan:
			c.resetTimer(timer)
		case u := <-c.updateChan:
			if c.apply(ctx, u) {
				c.resetTimer(timer)
			}
		case <-timer.C:
			c.handleUpdate(ctx)
		}
	}
}

func (c *CycleController) resetTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(timerDuration)
}

func (c *CycleController) apply(ctx context.Context, u parameterUpdate) bool {
	dst := parameterTopics[u.name](&c.params)
	if *dst == u.value {
		return false
	}
	logger.L().Infof("Updated %s: %g -> %g", u.name, *dst, u.value)
	*dst = u.value
	if err := c.writeValue(ctx, u.name, strconv.FormatFloat(u.value, 'g', -1, 64)); err != nil {
		logger.L().Errorf("Failed to store `%s`: %v", u.name, err)
	}
	return true
}

func (c *CycleController) handleUpdate(ctx context.Context) {
	params := c.params
	start := time.Now()
	res, err := cycle.Solve(params, c.props)
	metrics.Observe(metrics.SolverCycle, start, err)

	if err != nil {
		logger.L().Warnf("Cycle solve failed: %v", err)
		c.publish(c.topic(topicError), false, errorReport{Params: params, Error: err.Error()})
		return
	}

	report := resultReport{Params: params, Result: res}
	if id, err := c.store.SaveCycleRun(ctx, historySource, params, res); err != nil {
		logger.L().Errorf("Failed to store cycle run: %v", err)
	} else {
		report.RunID = id
	}
	logger.L().Infof(
		"Cycle efficiency: %.2f%%, net work: %.2f J/kg", res.ThermalEfficiency*100, res.NetWork,
	)
	c.publish(c.topic(topicResult), true, report)
}

func (c *CycleController) publish(topic string, retained bool, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.L().Error(err)
		return
	}
	if err := c.mqtt.SafePublish(topic, 1, retained, payload); err != nil {
		logger.L().Errorf("Failed to publish to `%s`: %v", topic, err)
	}
}

func (c *CycleController) controlUpdateHandler(_ mqtt.Client, message mqtt.Message) {
	topic := message.Topic()[strings.LastIndex(message.Topic(), "/")+1:]
	logger.L().Infof("Got MQTT control request: %v : %v", topic, string(message.Payload()))

	switch topic {
	case topicLogLevel:
		if err := c.cfg.LogLevel.Set(string(message.Payload())); err != nil {
			logger.L().Errorf("Wrong log level `%v`", string(message.Payload()))
		} else {
			logger.SetLogLevel(c.cfg.LogLevel)
			logger.L().Infof("Updated loglevel to `%v`", c.cfg.LogLevel.String())
		}
	case topicRecalculate:
		select {
		case c.forceChan <- true:
		default:
		}
	default:
		if _, ok := parameterTopics[topic]; !ok {
			logger.L().Warnf("Unknown control topic `%s`", message.Topic())
			return
		}
		v, err := extractF64PlainOrJson(message, topic)
		if err != nil {
			logger.L().Errorf("Ignoring `%s`: %v", topic, err)
			return
		}
		c.updateChan <- parameterUpdate{name: topic, value: v}
	}
}

// extractF64PlainOrJson accepts either a bare number or a JSON object
// carrying the number under key.
func extractF64PlainOrJson(message mqtt.Message, key string) (float64, error) {
	payload := strings.TrimSpace(string(message.Payload()))
	if !strings.HasPrefix(payload, "{") {
		v, err := strconv.ParseFloat(payload, 64)
		return v, errors.Wrapf(err, "parse %s", message.Topic())
	}

	var valMap map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &valMap); err != nil {
		return 0, errors.Wrapf(err, "json unmarshal error with : %v : %v", message.Topic(), payload)
	}
	v, ok := valMap[key]
	if !ok {
		return 0, errors.Errorf("not found: `%v` in `%v`: %v", key, message.Topic(), payload)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, errors.Errorf("cannot cast `%v` to float64 in : %v : %v", v, message.Topic(), payload)
	}
	return f, nil
}

func (c *CycleController) writeValue(ctx context.Context, name, value string) error {
	return c.store.UpsertControllerValue(ctx, name, value)
}

func (c *CycleController) readValueWithDefault(name string, defValue string) string {
	val, err := c.store.GetControllerValue(context.Background(), name)
	if err != nil {
		val = defValue
	}
	return val
}
