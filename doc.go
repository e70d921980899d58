/*Package tello provides an unofficial, easy-to-use, standalone API for the Ryze Tello® drone's text SDK.

Disclaimer

Tello is a registered trademark of Ryze Tech.  The author(s) of this package is/are in no way affiliated with Ryze, DJI, or Intel.

Use this package at your own risk.  The author(s) is/are in no way responsible for any damage caused either to or by the
drone when using this software.

Features

The following features have been implemented...
  * Text commands with their replies, eg. TakeOff(), Forward(), Flip()
  * Queries decoded into Go values, eg. Battery(), Temperature(), Attitude()
  * Telemetry (state) records decoded into a State, singly or streamed
  * Raw H.264 video datagrams, singly or streamed
  * An in-memory flight log which may be flushed to a file

Concepts

Connection Types

The drone talks over three UDP links, all bound to local ports: a 'control' link on which each command
is answered by one reply, a 'state' link on which the drone pushes a telemetry record several times a second,
and a 'video' link which carries H.264 once StartVideo() has been called.  Dial() opens all three and
sends the "command" handshake which puts the drone into SDK mode.

Every send and receive is bounded by Config.Timeout.  Nothing is retried: a lost datagram surfaces as
an error wrapping ErrReceive whose Timeout() method reports true.

Datagrams from any address other than the drone's are rejected with an *UnexpectedSenderError.
The drone answers from whichever port it pleases, so only its IP address is checked.

Funcs vs. Channels

Telemetry and video are available both as single-shot calls, State() and VideoChunk(), and as streams,
StreamState() and StreamVideo().  The streams never block on a slow reader; values not taken
from the channel in time are discarded.

*/
package tello
