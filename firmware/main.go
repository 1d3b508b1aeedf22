//go:build tinygo

package main

import (
	"machine"
	"strconv"
	"time"

	"github.com/calvinmclean/servotester"
	"github.com/calvinmclean/servotester/controller"
	"github.com/calvinmclean/servotester/firmware/commands"
	"github.com/calvinmclean/servotester/firmware/device"
)

const loopInterval = 10 * time.Millisecond

var start = time.Now()

func main() {
	cfg := servotester.DefaultConfig()

	servoCfg := device.ServoConfig{
		PWM: machine.PWM3,
		Pin: machine.GP22,
	}
	buttonCfg := device.ButtonConfig{
		Pins: [servotester.NumButtons]machine.Pin{machine.GP2, machine.GP3, machine.GP4, machine.GP5, machine.GP6},
	}
	potCfg := device.PotConfig{Pin: machine.ADC0}
	displayCfg := device.DisplayConfig{
		Bus:     machine.I2C0,
		SCL:     machine.GP1,
		SDA:     machine.GP0,
		Address: 0x3C,
	}
	storageCfg := device.StorageConfig{Offset: 0}

	// give the serial console time to attach
	time.Sleep(time.Second)
	log("boot " + cfg.Title)

	screen, err := device.NewScreen(displayCfg)
	if err != nil {
		halt(err)
	}

	servo, err := device.NewServo(servoCfg)
	if err != nil {
		halt(err)
	}

	storage, err := device.NewFlash(storageCfg)
	if err != nil {
		halt(err)
	}

	c, err := controller.New(cfg, controller.Hardware{
		Buttons: device.NewButtons(buttonCfg),
		Pot:     device.NewPot(potCfg),
		Servo:   servo,
		Screen:  screen,
		Storage: storage,
	}, log)
	if err != nil {
		halt(err)
	}

	cmds := commands.NewDispatcher(c, nil)
	for {
		for machine.Serial.Buffered() > 0 {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			cmds.Feed(b)
		}

		c.Tick(time.Now())
		time.Sleep(loopInterval)
	}
}

func log(msg string) {
	println(ts(), msg)
}

// halt stops the control loop for good
func halt(err error) {
	log("error: " + err.Error())
	for {
		time.Sleep(time.Second)
	}
}

func ts() string {
	return "[" + strconv.FormatInt(time.Since(start).Milliseconds(), 10) + "ms]"
}
