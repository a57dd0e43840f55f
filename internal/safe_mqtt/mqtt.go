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

package safe_mqtt

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/antst/sco2bc/internal/logger"
)

const (
	reconnectInterval = 2 * time.Second
	tokenTimeout      = 5 * time.Second
)

var ErrTimeout = errors.New("mqtt operation timed out")

// MqttClient is bridge between our app and MQTT
type MqttClient interface {
	SafePublish(topic string, qos byte, retained bool, payload interface{}) error
	SafeSubscribe(topic string, qos byte, callback mqtt.MessageHandler) error
	SafeUnsubscribe(topics ...string) error
	Disconnect()
}

type mqttClient struct {
	mutex sync.Mutex
	mqtt  mqtt.Client
}

var (
	connectHandler = func(client mqtt.Client) {
		or := client.OptionsReader()
		logger.L().Infof("Connected to MQTT broker: %v as %s", or.Servers(), or.ClientID())
	}

	connectLostHandler = func(client mqtt.Client, err error) {
		logger.L().Warnf("Connection to MQTT broker lost: %v", err)
	}
)

// InitMQTTClient blocks until the broker accepts the connection. Later
// disconnects are handled by paho's auto reconnect.
func InitMQTTClient(url, clientID string) MqttClient {
	opts := mqtt.NewClientOptions().
		AddBroker(url).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(reconnectInterval)

	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	connectMQTT(client)

	return &mqttClient{
		mqtt: client,
	}
}

func connectMQTT(client mqtt.Client) {
	for {
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			logger.L().Warnf("Connection failed, retrying in %v: %v", reconnectInterval, token.Error())
			time.Sleep(reconnectInterval)
		} else {
			break
		}
	}
}

func wait(token mqtt.Token, op, topic string) error {
	if !token.WaitTimeout(tokenTimeout) {
		return errors.Wrapf(ErrTimeout, "%s %s", op, topic)
	}
	return errors.Wrapf(token.Error(), "%s %s", op, topic)
}

func (m *mqttClient) SafePublish(topic string, qos byte, retained bool, payload interface{}) error {
	m.mutex.Lock()
	token := m.mqtt.Publish(topic, qos, retained, payload)
	m.mutex.Unlock()
	return wait(token, "publish", topic)
}

func (m *mqttClient) SafeSubscribe(topic string, qos byte, callback mqtt.MessageHandler) error {
	m.mutex.Lock()
	token := m.mqtt.Subscribe(topic, qos, callback)
	m.mutex.Unlock()
	return wait(token, "subscribe", topic)
}

func (m *mqttClient) SafeUnsubscribe(topics ...string) error {
	m.mutex.Lock()
	token := m.mqtt.Unsubscribe(topics...)
	m.mutex.Unlock()
	return wait(token, "unsubscribe", "")
}

func (m *mqttClient) Disconnect() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.mqtt.Disconnect(250)
}
