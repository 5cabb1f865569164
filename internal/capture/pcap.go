package capture

import (
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// PcapSource replays UDP datagrams from a pcap capture file through the
// same pipeline as live reception. Arrival timestamps come from the
// capture records, so replayed rows keep the original wall clock.
type PcapSource struct {
	file   *os.File
	reader *pcapgo.Reader
	port   uint16
}

// OpenPcap opens a pcap file and filters for UDP datagrams addressed to
// port. port 0 disables the filter.
func OpenPcap(path string, port uint16) (*PcapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: failed to open pcap %s: %w", path, err)
	}
	r, err := pcapgo.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("capture: failed to read pcap %s: %w", path, err)
	}
	return &PcapSource{file: f, reader: r, port: port}, nil
}

// Receive returns the next matching UDP payload. io.EOF marks the end of
// the capture and is the replay equivalent of a cancellation request.
func (s *PcapSource) Receive() (Datagram, error) {
	for {
		data, ci, err := s.reader.ReadPacketData()
		if err != nil {
			return Datagram{}, err
		}

		pkt := gopacket.NewPacket(data, s.reader.LinkType(), gopacket.Default)
		udpLayer := pkt.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp := udpLayer.(*layers.UDP)
		if s.port != 0 && uint16(udp.DstPort) != s.port {
			continue
		}

		payload := make([]byte, len(udp.Payload))
		copy(payload, udp.Payload)
		return Datagram{Data: payload, ReceivedAt: ci.Timestamp}, nil
	}
}

// Close closes the underlying file.
func (s *PcapSource) Close() error {
	return s.file.Close()
}
