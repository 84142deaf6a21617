package main

import (
	"bytes"
	"log"
	"net"
	"os"

	"bombit/internal/clientstate"
	"bombit/internal/config"
	"bombit/internal/wire"
)

func main() {
	cfg := config.LoadClient()
	log.Printf("bombit-client: connecting to %s as %q, GUI at %s<-%s",
		cfg.ServerAddr, cfg.PlayerName, cfg.GUIListen, cfg.GUISend)

	serverConn, err := net.Dial("tcp", cfg.ServerAddr)
	if err != nil {
		log.Fatalf("bombit-client: dial server: %v", err)
	}
	defer serverConn.Close()

	guiConn, err := net.ListenPacket("udp", cfg.GUIListen)
	if err != nil {
		log.Fatalf("bombit-client: listen gui: %v", err)
	}
	defer guiConn.Close()

	guiAddr, err := net.ResolveUDPAddr("udp", cfg.GUISend)
	if err != nil {
		log.Fatalf("bombit-client: resolve gui send addr: %v", err)
	}

	arbiter := clientstate.NewArbiter()

	ingress := clientstate.NewServerIngress(arbiter, func(payload []byte) error {
		_, err := guiConn.WriteTo(payload, guiAddr)
		return err
	})

	egress := clientstate.NewGUIIngress(arbiter, func(payload []byte) error {
		_, err := serverConn.Write(payload)
		return err
	}, cfg)

	go func() {
		buf := make([]byte, wire.MaxDatagramSize)
		for {
			n, _, err := guiConn.ReadFrom(buf)
			if err != nil {
				log.Printf("bombit-client: gui read: %v", err)
				return
			}
			datagram := bytes.Clone(buf[:n])
			if err := egress.HandleDatagram(datagram); err != nil {
				log.Printf("bombit-client: gui forward: %v", err)
			}
		}
	}()

	if err := ingress.Run(serverConn); err != nil {
		log.Printf("bombit-client: protocol violation, aborting: %v", err)
		os.Exit(1)
	}
}
